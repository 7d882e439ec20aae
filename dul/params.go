package dul

import (
	"fmt"
	"time"

	"github.com/meridianhealth/dicomul/aetitle"
	"github.com/meridianhealth/dicomul/internal/validate"
	"github.com/meridianhealth/dicomul/presentation"
	"github.com/meridianhealth/dicomul/uid"
)

// PresentationContextOffer is one abstract syntax, and the transfer
// syntaxes proposed for it, that a requestor will offer on association
// (PS3.8 9.3.2.2). Validated with go-playground/validator/v10, the way the
// rest of this module's domain structs are.
type PresentationContextOffer struct {
	AbstractSyntax   string   `validate:"required"`
	TransferSyntaxes []string `validate:"required,min=1,dive,required"`
}

// ServiceUserParams configures a Provider acting as the association
// requestor (DUL "service user"). This is deliberately not a file- or
// env-backed AE configuration: it is the minimal parameter set every
// A-ASSOCIATE request needs, validated once at construction.
type ServiceUserParams struct {
	CalledAETitle  string `validate:"required,max=16"`
	CallingAETitle string `validate:"required,max=16"`

	PresentationContexts []PresentationContextOffer `validate:"required,min=1,dive"`

	// MaxPDULength is the Maximum Length this AE advertises in its
	// A-ASSOCIATE-RQ (PS3.8 9.1.1). A zero value is a deliberate, legal
	// choice -- it tells the peer this AE imposes no limit on P-DATA-TF
	// fragment size -- and is left exactly as the caller set it; it is
	// never silently replaced with DefaultMaxPDULength. Callers who want
	// the bounded default should set this field to DefaultMaxPDULength
	// themselves.
	MaxPDULength              uint32
	ImplementationClassUID    string `validate:"required"`
	ImplementationVersionName string

	ARTIMTimeout time.Duration `validate:"gt=0"`
}

// ServiceProviderParams configures a Provider acting as the association
// acceptor (DUL "service provider").
type ServiceProviderParams struct {
	SupportedContexts []presentation.SupportedContext `validate:"required,min=1"`

	// MaxPDULength is the Maximum Length this AE advertises in its
	// A-ASSOCIATE-AC; see ServiceUserParams.MaxPDULength for the "0 means
	// unlimited" semantics, which apply identically here.
	MaxPDULength              uint32
	ImplementationClassUID    string `validate:"required"`
	ImplementationVersionName string

	ARTIMTimeout time.Duration `validate:"gt=0"`
}

// DefaultMaxPDULength matches the value Osirix and pynetdicom both default
// to when a caller wants a bounded Maximum Length but has no specific value
// of their own in mind. It is not applied automatically; see
// ServiceUserParams.MaxPDULength.
const DefaultMaxPDULength uint32 = 16384

// DefaultARTIMTimeout is the ARTIM timer duration used when a caller does
// not set one explicitly (PS3.8 9.1.5 leaves the exact duration to the
// implementation).
const DefaultARTIMTimeout = 10 * time.Second

func (p *ServiceUserParams) validate() error {
	if p.ARTIMTimeout == 0 {
		p.ARTIMTimeout = DefaultARTIMTimeout
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("dul: invalid service user params: %w", err)
	}
	if _, err := aetitle.Parse(p.CalledAETitle); err != nil {
		return fmt.Errorf("dul: invalid service user params: %w", err)
	}
	if _, err := aetitle.Parse(p.CallingAETitle); err != nil {
		return fmt.Errorf("dul: invalid service user params: %w", err)
	}
	for _, pc := range p.PresentationContexts {
		if err := uid.Validate(pc.AbstractSyntax); err != nil {
			return fmt.Errorf("dul: invalid service user params: %w", err)
		}
		for _, ts := range pc.TransferSyntaxes {
			if err := uid.Validate(ts); err != nil {
				return fmt.Errorf("dul: invalid service user params: %w", err)
			}
		}
	}
	return nil
}

func (p *ServiceProviderParams) validate() error {
	if p.ARTIMTimeout == 0 {
		p.ARTIMTimeout = DefaultARTIMTimeout
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("dul: invalid service provider params: %w", err)
	}
	for _, sc := range p.SupportedContexts {
		if err := uid.Validate(string(sc.AbstractSyntax)); err != nil {
			return fmt.Errorf("dul: invalid service provider params: %w", err)
		}
	}
	return nil
}
