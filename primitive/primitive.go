// Package primitive models the upper-layer service primitives exchanged
// between a DUL service user and the DUL service provider: the in-memory,
// PDU-agnostic shapes of A-ASSOCIATE, A-RELEASE, A-ABORT, and P-DATA.
//
// Every field here already carries a validated uid.UID or aetitle.Title;
// the codec in pdu/pduitem is the only place wire-format details such as
// item headers and byte widths appear.
package primitive

import (
	"fmt"

	"github.com/meridianhealth/dicomul/aetitle"
	"github.com/meridianhealth/dicomul/pdu"
	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/uid"
)

// TransferSyntaxProposal is one transfer syntax offered for a Presentation
// Context, in the order the requestor prefers them.
type TransferSyntaxProposal struct {
	TransferSyntax uid.UID
}

// RoleProposal carries an optional SCP/SCU role negotiation for a single
// abstract syntax, per PS3.7 D.3.3.4. A PresentationContextProposal with a
// nil Role uses the default roles (requestor is SCU, acceptor is SCP).
type RoleProposal struct {
	SCURole bool
	SCPRole bool
}

// PresentationContextProposal is one entry in an A-ASSOCIATE-RQ's list of
// proposed Presentation Contexts (PS3.8 9.3.2.2).
type PresentationContextProposal struct {
	ID              byte // caller-assigned, must be odd
	AbstractSyntax  uid.UID
	TransferSyntaxes []uid.UID
	Role            *RoleProposal
}

// PresentationContextResult is one entry in an A-ASSOCIATE-AC's list of
// negotiated Presentation Contexts (PS3.8 9.3.3.2). TransferSyntax is only
// significant when Result is pduitem.ResultAcceptance; otherwise it may be
// empty or echo a proposed transfer syntax, and must not be relied on.
type PresentationContextResult struct {
	ID             byte
	AbstractSyntax uid.UID // echoed from the proposal, needed to key a Role Selection reply
	Result         pduitem.Result
	TransferSyntax uid.UID
	Role           *RoleProposal
}

// AssociateRequest is the A-ASSOCIATE request/indication primitive
// (PS3.8 7.1.1).
type AssociateRequest struct {
	CalledAETitle  aetitle.Title
	CallingAETitle aetitle.Title

	ApplicationContextName uid.UID
	PresentationContexts   []PresentationContextProposal

	MaxPDULength          uint32
	ImplementationClassUID string
	ImplementationVersionName string
	MaxOpsInvoked   uint16
	MaxOpsPerformed uint16

	UserIdentity *UserIdentityRequest
}

// Validate checks the invariants the codec and negotiator both assume hold
// before this primitive is ever turned into wire bytes.
func (r *AssociateRequest) Validate() error {
	if r.CalledAETitle.IsZero() {
		return fmt.Errorf("primitive: associate request: called AE title is required")
	}
	if r.CallingAETitle.IsZero() {
		return fmt.Errorf("primitive: associate request: calling AE title is required")
	}
	if len(r.PresentationContexts) == 0 {
		return fmt.Errorf("primitive: associate request: at least one presentation context is required")
	}
	seen := map[byte]bool{}
	for _, pc := range r.PresentationContexts {
		if pc.ID%2 != 1 {
			return fmt.Errorf("primitive: associate request: presentation context id %d must be odd", pc.ID)
		}
		if seen[pc.ID] {
			return fmt.Errorf("primitive: associate request: duplicate presentation context id %d", pc.ID)
		}
		seen[pc.ID] = true
		if len(pc.TransferSyntaxes) == 0 {
			return fmt.Errorf("primitive: associate request: presentation context %d proposes no transfer syntaxes", pc.ID)
		}
	}
	return nil
}

// AssociateAccept is the A-ASSOCIATE response/confirmation primitive for a
// successful negotiation (PS3.8 7.1.2).
type AssociateAccept struct {
	CalledAETitle  aetitle.Title
	CallingAETitle aetitle.Title

	ApplicationContextName uid.UID
	PresentationContexts   []PresentationContextResult

	MaxPDULength              uint32
	ImplementationClassUID    string
	ImplementationVersionName string

	UserIdentity *UserIdentityAccept
}

// AssociateReject is the A-ASSOCIATE response/confirmation primitive for an
// unsuccessful negotiation (PS3.8 7.1.3).
type AssociateReject struct {
	Result pdu.RejectResult
	Source pdu.RejectSource
	Reason pdu.RejectReason
}

// ReleaseRequest is the A-RELEASE request/indication primitive
// (PS3.8 7.2.1). It carries no parameters.
type ReleaseRequest struct{}

// ReleaseResponse is the A-RELEASE response/confirmation primitive
// (PS3.8 7.2.2). It carries no parameters.
type ReleaseResponse struct{}

// AbortRequest is the A-ABORT request primitive (PS3.8 7.3.1), issued by the
// local service user.
type AbortRequest struct {
	Source pdu.RejectSource
}

// AbortIndication is the A-P-ABORT indication primitive (PS3.8 7.4.1),
// reporting an abort to the service user. For an A-ABORT PDU received from
// the peer, Reason is the reason field of that PDU; for a provider-initiated
// or network-initiated abort it is AbortReasonNotSpecified.
type AbortIndication struct {
	Reason pdu.AbortReason
}

// PDataRequest is the P-DATA request/indication primitive (PS3.8 7.6.1):
// one or more presentation-context-tagged DIMSE fragments. This repository
// does not decode DIMSE commands; it moves Fragments opaquely between the
// DUL and whatever sits above it.
type PDataRequest struct {
	Fragments []PDataFragment
}

// PDataFragment is one fragment of a single presentation-context's DIMSE
// stream, addressed by the negotiated context ID (PS3.8 9.3.5.1).
type PDataFragment struct {
	PresentationContextID byte
	Command               bool
	Last                  bool
	Value                 []byte
}
