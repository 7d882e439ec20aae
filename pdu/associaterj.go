package pdu

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/dicomio"
)

// RejectResult distinguishes a permanent rejection (retrying with the same
// parameters will not help) from a transient one (PS3.8 Table 9-21).
type RejectResult byte

const (
	RejectResultPermanent RejectResult = 1
	RejectResultTransient RejectResult = 2
)

// RejectSource identifies which layer originated an A-ASSOCIATE-RJ or
// A-ABORT (PS3.8 Tables 9-21, 9-26).
type RejectSource byte

const (
	SourceServiceUser                 RejectSource = 1
	SourceServiceProviderACSE         RejectSource = 2
	SourceServiceProviderPresentation RejectSource = 3
)

// RejectReason enumerates the reason codes legal for RejectSource.
// Numbering is shared across sources, so a reason must be interpreted
// alongside its Source (PS3.8 Table 9-21).
type RejectReason byte

const (
	ReasonNone                               RejectReason = 1
	ReasonApplicationContextNameNotSupported RejectReason = 2
	ReasonCallingAETitleNotRecognized        RejectReason = 3
	ReasonCalledAETitleNotRecognized         RejectReason = 7
)

// AssociateRJ is the A-ASSOCIATE-RJ PDU (PS3.8 9.3.4): the association
// requestor's proposal was rejected before an association was formed.
type AssociateRJ struct {
	Result RejectResult
	Source RejectSource
	Reason RejectReason
}

func (p *AssociateRJ) PDUType() Type { return TypeAssociateRJ }

func (p *AssociateRJ) writePayload(w *dicomio.Writer) error {
	if err := w.WriteZeros(1); err != nil {
		return err
	}
	if err := w.WriteByte(byte(p.Result)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(p.Source)); err != nil {
		return err
	}
	return w.WriteByte(byte(p.Reason))
}

func (p *AssociateRJ) String() string {
	return fmt.Sprintf("A-ASSOCIATE-RJ{result:%d source:%d reason:%d}", p.Result, p.Source, p.Reason)
}

func readAssociateRJ(r *dicomio.Reader) (*AssociateRJ, error) {
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	result, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	source, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	reason, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reason: %w", err)
	}
	return &AssociateRJ{
		Result: RejectResult(result),
		Source: RejectSource(source),
		Reason: RejectReason(reason),
	}, nil
}
