// Package presentation implements the Presentation Context negotiation
// algorithms run by both sides of an association: the acceptor picks, per
// proposed context, the first mutually supported transfer syntax in the
// requestor's order (or a rejection reason); the requestor reconciles the
// acceptor's answers with what it originally proposed into one table.
package presentation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/primitive"
	"github.com/meridianhealth/dicomul/uid"
)

// ErrApplicationContextNotSupported is returned by NegotiateAsAcceptor when
// the proposal names an application context other than the one DICOM
// application context this package negotiates (PS3.8 9.3.2.1.1).
var ErrApplicationContextNotSupported = errors.New("presentation: application context not supported")

// ErrNoAcceptableContexts is returned by NegotiateAsAcceptor when every
// proposed presentation context was rejected: PS3.8 does not define a
// partially-accepted association with zero usable contexts, so this rejects
// the whole proposal rather than returning an AC nobody can use.
var ErrNoAcceptableContexts = errors.New("presentation: no presentation context could be accepted")

// SupportedContext is one abstract syntax a local AE is willing to accept,
// together with the transfer syntaxes and SCP/SCU roles it supports for it.
// An acceptor supplies a list of these to NegotiateAsAcceptor; it is the
// local equivalent of the peer's PresentationContextProposal.
type SupportedContext struct {
	AbstractSyntax   uid.UID
	TransferSyntaxes []uid.UID // used as a set; the requestor's proposal order decides the pick

	// SCPCapable/SCUCapable declare which roles this AE can fill for
	// AbstractSyntax. Only consulted when the peer proposes role selection
	// for this abstract syntax (PS3.7 D.3.3.4); otherwise the default
	// roles (requestor SCU, acceptor SCP) apply.
	SCPCapable bool
	SCUCapable bool
}

func findSupported(supported []SupportedContext, abstractSyntax uid.UID) (SupportedContext, bool) {
	for _, sc := range supported {
		if sc.AbstractSyntax == abstractSyntax {
			return sc, true
		}
	}
	return SupportedContext{}, false
}

// firstCommon returns the first transfer syntax in proposed (the
// requestor's preference order) that also appears in supported (the
// acceptor's capability list), and reports whether one was found.
func firstCommon(proposed, supported []uid.UID) (uid.UID, bool) {
	supportedSet := make(map[uid.UID]bool, len(supported))
	for _, ts := range supported {
		supportedSet[ts] = true
	}
	for _, ts := range proposed {
		if supportedSet[ts] {
			return ts, true
		}
	}
	return "", false
}

// resolveRole applies PS3.7 D.3.3.4: the acceptor may only claim a role the
// requestor offered, and only one it is itself capable of. A role the
// requestor did not offer is never granted, regardless of local capability.
func resolveRole(proposed *primitive.RoleProposal, local SupportedContext) *primitive.RoleProposal {
	if proposed == nil {
		return nil
	}
	return &primitive.RoleProposal{
		SCURole: proposed.SCURole && local.SCUCapable,
		SCPRole: proposed.SCPRole && local.SCPCapable,
	}
}

// NegotiateAsAcceptor decides, for each context the peer proposed, whether
// to accept it and with which transfer syntax, given the local AE's
// declared capabilities. It never returns an error for an individual
// context it cannot satisfy -- that becomes a per-context rejection result,
// per PS3.8 9.3.3.2. It does return an error -- ErrApplicationContextNotSupported
// or ErrNoAcceptableContexts -- when the whole proposal must be rejected
// rather than answered with an AC, and a wrapped error for a malformed
// request the caller should already have rejected via AssociateRequest.Validate.
func NegotiateAsAcceptor(req *primitive.AssociateRequest, supported []SupportedContext, localMaxPDU uint32) (*primitive.AssociateAccept, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("presentation: negotiate as acceptor: %w", err)
	}
	if req.ApplicationContextName != uid.DICOMApplicationContextName {
		return nil, fmt.Errorf("presentation: negotiate as acceptor: %q: %w", req.ApplicationContextName, ErrApplicationContextNotSupported)
	}

	accept := &primitive.AssociateAccept{
		CalledAETitle:          req.CalledAETitle,
		CallingAETitle:         req.CallingAETitle,
		ApplicationContextName: req.ApplicationContextName,
		MaxPDULength:           localMaxPDU,
	}

	accepted := 0
	for _, proposal := range req.PresentationContexts {
		result := primitive.PresentationContextResult{ID: proposal.ID, AbstractSyntax: proposal.AbstractSyntax}

		local, ok := findSupported(supported, proposal.AbstractSyntax)
		if !ok {
			result.Result = pduitem.ResultAbstractSyntaxNotSupported
			accept.PresentationContexts = append(accept.PresentationContexts, result)
			continue
		}

		picked, ok := firstCommon(proposal.TransferSyntaxes, local.TransferSyntaxes)
		if !ok {
			result.Result = pduitem.ResultTransferSyntaxesNotSupported
			accept.PresentationContexts = append(accept.PresentationContexts, result)
			continue
		}

		result.Result = pduitem.ResultAcceptance
		result.TransferSyntax = picked
		result.Role = resolveRole(proposal.Role, local)
		accept.PresentationContexts = append(accept.PresentationContexts, result)
		accepted++
	}
	if accepted == 0 {
		return nil, ErrNoAcceptableContexts
	}
	return accept, nil
}

// NegotiateAsRequestor reconciles the contexts a requestor proposed with the
// results an acceptor's A-ASSOCIATE-AC returned, producing the authoritative
// per-context table the requestor uses from then on. For each proposed
// context it copies the acceptor's result and chosen transfer syntax when
// the acceptor answered it; a context the AC omits entirely -- a
// spec-conformant acceptor always answers every proposed ID, but this
// package does not trust the peer to be spec-conformant -- is treated as a
// rejection the acceptor forgot to state explicitly, using
// pduitem.ResultNoReason and echoing back the first transfer syntax this
// requestor offered for it. The returned table is sorted by context id.
func NegotiateAsRequestor(requested []primitive.PresentationContextProposal, result []primitive.PresentationContextResult) []primitive.PresentationContextResult {
	results := make(map[byte]primitive.PresentationContextResult, len(result))
	for _, r := range result {
		results[r.ID] = r
	}

	reconciled := make([]primitive.PresentationContextResult, 0, len(requested))
	for _, proposal := range requested {
		if r, ok := results[proposal.ID]; ok {
			reconciled = append(reconciled, r)
			continue
		}
		fallback := primitive.PresentationContextResult{
			ID:             proposal.ID,
			AbstractSyntax: proposal.AbstractSyntax,
			Result:         pduitem.ResultNoReason,
		}
		if len(proposal.TransferSyntaxes) > 0 {
			fallback.TransferSyntax = proposal.TransferSyntaxes[0]
		}
		reconciled = append(reconciled, fallback)
	}

	sort.Slice(reconciled, func(i, j int) bool { return reconciled[i].ID < reconciled[j].ID })
	return reconciled
}
