package primitive

import (
	"fmt"

	"github.com/meridianhealth/dicomul/pdu"
	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/uid"
)

// RequestToPDU renders an AssociateRequest as the wire-format A-ASSOCIATE-RQ
// PDU the requestor sends to open an association.
func RequestToPDU(r *AssociateRequest) (*pdu.Associate, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	p := &pdu.Associate{
		Type:            pdu.TypeAssociateRQ,
		ProtocolVersion: pdu.CurrentProtocolVersion,
		Called:          r.CalledAETitle,
		Calling:         r.CallingAETitle,
	}
	p.Items = append(p.Items, &pduitem.ApplicationContextItem{Name: r.ApplicationContextName})
	for _, pc := range r.PresentationContexts {
		item := &pduitem.PresentationContextItem{
			Type:      pduitem.TypePresentationContextRequest,
			ContextID: pc.ID,
		}
		item.Items = append(item.Items, &pduitem.AbstractSyntaxItem{Name: pc.AbstractSyntax})
		for _, ts := range pc.TransferSyntaxes {
			item.Items = append(item.Items, &pduitem.TransferSyntaxItem{Name: ts})
		}
		p.Items = append(p.Items, item)
	}
	p.Items = append(p.Items, buildUserInformation(r))
	return p, nil
}

func buildUserInformation(r *AssociateRequest) *pduitem.UserInformationItem {
	ui := &pduitem.UserInformationItem{}
	ui.Items = append(ui.Items, &pduitem.MaximumLengthItem{MaximumLengthReceived: r.MaxPDULength})
	ui.Items = append(ui.Items, &pduitem.ImplementationClassUIDItem{UID: r.ImplementationClassUID})
	if r.ImplementationVersionName != "" {
		ui.Items = append(ui.Items, &pduitem.ImplementationVersionNameItem{Name: r.ImplementationVersionName})
	}
	if r.MaxOpsInvoked != 0 || r.MaxOpsPerformed != 0 {
		ui.Items = append(ui.Items, &pduitem.AsyncOpsWindowItem{
			MaxOpsInvoked:   r.MaxOpsInvoked,
			MaxOpsPerformed: r.MaxOpsPerformed,
		})
	}
	for _, pc := range r.PresentationContexts {
		if pc.Role == nil {
			continue
		}
		ui.Items = append(ui.Items, &pduitem.RoleSelectionItem{
			SOPClassUID: pc.AbstractSyntax,
			SCURole:     boolToRole(pc.Role.SCURole),
			SCPRole:     boolToRole(pc.Role.SCPRole),
		})
	}
	if r.UserIdentity != nil {
		ui.Items = append(ui.Items, &pduitem.UserIdentityRQItem{
			IDType:                    r.UserIdentity.Type,
			PositiveResponseRequested: r.UserIdentity.PositiveResponseRequested,
			PrimaryField:              r.UserIdentity.PrimaryField,
			SecondaryField:            r.UserIdentity.SecondaryField,
		})
	}
	return ui
}

func boolToRole(b bool) pduitem.Role {
	if b {
		return pduitem.RoleSupported
	}
	return pduitem.RoleNotSupported
}

// PDUToRequest parses a wire-format A-ASSOCIATE-RQ PDU into an
// AssociateRequest primitive.
func PDUToRequest(p *pdu.Associate) (*AssociateRequest, error) {
	if p.Type != pdu.TypeAssociateRQ {
		return nil, fmt.Errorf("primitive: %s is not an A-ASSOCIATE-RQ", p.Type)
	}
	req := &AssociateRequest{
		CalledAETitle:  p.Called,
		CallingAETitle: p.Calling,
	}

	contexts := map[byte]*PresentationContextProposal{}
	var order []byte
	roles := map[uid.UID]*RoleProposal{}

	for _, item := range p.Items {
		switch v := item.(type) {
		case *pduitem.ApplicationContextItem:
			req.ApplicationContextName = v.Name
		case *pduitem.PresentationContextItem:
			pc, err := presentationContextRQToProposal(v)
			if err != nil {
				return nil, err
			}
			contexts[v.ContextID] = pc
			order = append(order, v.ContextID)
		case *pduitem.UserInformationItem:
			if err := applyUserInformationToRequest(req, v, roles); err != nil {
				return nil, err
			}
		}
	}

	for _, id := range order {
		pc := contexts[id]
		if r, ok := roles[pc.AbstractSyntax]; ok {
			pc.Role = r
		}
		req.PresentationContexts = append(req.PresentationContexts, *pc)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func presentationContextRQToProposal(v *pduitem.PresentationContextItem) (*PresentationContextProposal, error) {
	pc := &PresentationContextProposal{ID: v.ContextID}
	for _, sub := range v.Items {
		switch s := sub.(type) {
		case *pduitem.AbstractSyntaxItem:
			pc.AbstractSyntax = s.Name
		case *pduitem.TransferSyntaxItem:
			pc.TransferSyntaxes = append(pc.TransferSyntaxes, s.Name)
		}
	}
	if pc.AbstractSyntax == "" {
		return nil, fmt.Errorf("primitive: presentation context %d has no abstract syntax", v.ContextID)
	}
	return pc, nil
}

func applyUserInformationToRequest(req *AssociateRequest, ui *pduitem.UserInformationItem, roles map[uid.UID]*RoleProposal) error {
	for _, item := range ui.Items {
		switch v := item.(type) {
		case *pduitem.MaximumLengthItem:
			req.MaxPDULength = v.MaximumLengthReceived
		case *pduitem.ImplementationClassUIDItem:
			req.ImplementationClassUID = v.UID
		case *pduitem.ImplementationVersionNameItem:
			req.ImplementationVersionName = v.Name
		case *pduitem.AsyncOpsWindowItem:
			req.MaxOpsInvoked = v.MaxOpsInvoked
			req.MaxOpsPerformed = v.MaxOpsPerformed
		case *pduitem.RoleSelectionItem:
			roles[v.SOPClassUID] = &RoleProposal{
				SCURole: v.SCURole == pduitem.RoleSupported,
				SCPRole: v.SCPRole == pduitem.RoleSupported,
			}
		case *pduitem.UserIdentityRQItem:
			req.UserIdentity = &UserIdentityRequest{
				Type:                      v.IDType,
				PositiveResponseRequested: v.PositiveResponseRequested,
				PrimaryField:              v.PrimaryField,
				SecondaryField:            v.SecondaryField,
			}
		}
	}
	return nil
}

// AcceptToPDU renders an AssociateAccept as the wire-format A-ASSOCIATE-AC
// PDU the acceptor sends back to the requestor.
func AcceptToPDU(a *AssociateAccept) (*pdu.Associate, error) {
	p := &pdu.Associate{
		Type:            pdu.TypeAssociateAC,
		ProtocolVersion: pdu.CurrentProtocolVersion,
		Called:          a.CalledAETitle,
		Calling:         a.CallingAETitle,
	}
	p.Items = append(p.Items, &pduitem.ApplicationContextItem{Name: a.ApplicationContextName})
	for _, pc := range a.PresentationContexts {
		item := &pduitem.PresentationContextItem{
			Type:      pduitem.TypePresentationContextResponse,
			ContextID: pc.ID,
			Result:    pc.Result,
		}
		if pc.Result == pduitem.ResultAcceptance {
			item.Items = append(item.Items, &pduitem.TransferSyntaxItem{Name: pc.TransferSyntax})
		}
		p.Items = append(p.Items, item)
	}

	ui := &pduitem.UserInformationItem{}
	ui.Items = append(ui.Items, &pduitem.MaximumLengthItem{MaximumLengthReceived: a.MaxPDULength})
	ui.Items = append(ui.Items, &pduitem.ImplementationClassUIDItem{UID: a.ImplementationClassUID})
	if a.ImplementationVersionName != "" {
		ui.Items = append(ui.Items, &pduitem.ImplementationVersionNameItem{Name: a.ImplementationVersionName})
	}
	for _, pc := range a.PresentationContexts {
		if pc.Role == nil {
			continue
		}
		ui.Items = append(ui.Items, &pduitem.RoleSelectionItem{
			SOPClassUID: pc.AbstractSyntax,
			SCURole:     boolToRole(pc.Role.SCURole),
			SCPRole:     boolToRole(pc.Role.SCPRole),
		})
	}
	if a.UserIdentity != nil {
		ui.Items = append(ui.Items, &pduitem.UserIdentityACItem{ServerResponse: a.UserIdentity.ServerResponse})
	}
	p.Items = append(p.Items, ui)
	return p, nil
}

// PDUToAccept parses a wire-format A-ASSOCIATE-AC PDU into an
// AssociateAccept primitive. req is the AssociateRequest that produced this
// accept; it supplies the abstract syntax for each context ID, which the AC
// PDU itself omits, so that a Role Selection reply (keyed by SOP Class UID)
// can be attributed back to the right context.
func PDUToAccept(p *pdu.Associate, req *AssociateRequest) (*AssociateAccept, error) {
	if p.Type != pdu.TypeAssociateAC {
		return nil, fmt.Errorf("primitive: %s is not an A-ASSOCIATE-AC", p.Type)
	}
	abstractSyntaxByID := make(map[byte]uid.UID, len(req.PresentationContexts))
	for _, pc := range req.PresentationContexts {
		abstractSyntaxByID[pc.ID] = pc.AbstractSyntax
	}

	ac := &AssociateAccept{
		CalledAETitle:  p.Called,
		CallingAETitle: p.Calling,
	}
	roles := map[uid.UID]*RoleProposal{}
	for _, item := range p.Items {
		switch v := item.(type) {
		case *pduitem.ApplicationContextItem:
			ac.ApplicationContextName = v.Name
		case *pduitem.PresentationContextItem:
			result := PresentationContextResult{
				ID:             v.ContextID,
				AbstractSyntax: abstractSyntaxByID[v.ContextID],
				Result:         v.Result,
			}
			for _, sub := range v.Items {
				if ts, ok := sub.(*pduitem.TransferSyntaxItem); ok {
					result.TransferSyntax = ts.Name
				}
			}
			ac.PresentationContexts = append(ac.PresentationContexts, result)
		case *pduitem.UserInformationItem:
			for _, sub := range v.Items {
				switch s := sub.(type) {
				case *pduitem.MaximumLengthItem:
					ac.MaxPDULength = s.MaximumLengthReceived
				case *pduitem.ImplementationClassUIDItem:
					ac.ImplementationClassUID = s.UID
				case *pduitem.ImplementationVersionNameItem:
					ac.ImplementationVersionName = s.Name
				case *pduitem.UserIdentityACItem:
					ac.UserIdentity = &UserIdentityAccept{ServerResponse: s.ServerResponse}
				case *pduitem.RoleSelectionItem:
					roles[s.SOPClassUID] = &RoleProposal{
						SCURole: s.SCURole == pduitem.RoleSupported,
						SCPRole: s.SCPRole == pduitem.RoleSupported,
					}
				}
			}
		}
	}
	for i := range ac.PresentationContexts {
		if r, ok := roles[ac.PresentationContexts[i].AbstractSyntax]; ok {
			ac.PresentationContexts[i].Role = r
		}
	}
	return ac, nil
}

// PDataToPDU flattens a PDataRequest's fragments into a P-DATA-TF PDU.
func PDataToPDU(p *PDataRequest) *pdu.PDataTF {
	tf := &pdu.PDataTF{}
	for _, f := range p.Fragments {
		tf.Values = append(tf.Values, pdu.PresentationDataValue{
			ContextID: f.PresentationContextID,
			Command:   f.Command,
			Last:      f.Last,
			Value:     f.Value,
		})
	}
	return tf
}

// PDUToPDataRequest lifts a received P-DATA-TF PDU into a PDataRequest
// primitive.
func PDUToPDataRequest(p *pdu.PDataTF) *PDataRequest {
	req := &PDataRequest{}
	for _, v := range p.Values {
		req.Fragments = append(req.Fragments, PDataFragment{
			PresentationContextID: v.ContextID,
			Command:               v.Command,
			Last:                  v.Last,
			Value:                 v.Value,
		})
	}
	return req
}
