package dul

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/meridianhealth/dicomul/pdu"
	"github.com/meridianhealth/dicomul/presentation"
	"github.com/meridianhealth/dicomul/primitive"
)

type stateAction struct {
	Name        string
	Description string
	Callback    func(sm *stateMachine, event stateEvent) stateType
}

func (a *stateAction) String() string { return fmt.Sprintf("%s(%s)", a.Name, a.Description) }

// Association establishment actions (PS3.8 Table 9-6).

var actionAE1 = &stateAction{"AE-1", "Issue transport connection request",
	func(sm *stateMachine, event stateEvent) stateType {
		return sta04
	}}

var actionAE2 = &stateAction{"AE-2", "Connection established; send A-ASSOCIATE-RQ PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.conn = event.conn
		go networkReaderThread(sm.netCh, sm.conn)

		req := sm.buildAssociateRequest()
		sm.pendingRequest = req
		encoded, err := primitive.RequestToPDU(req)
		if err != nil {
			sm.log("AE-2: %v", err)
			return actionAA1.Callback(sm, event)
		}
		sm.sendPDU(encoded)
		sm.startTimer()
		return sta05
	}}

var actionAE3 = &stateAction{"AE-3", "A-ASSOCIATE-AC received; issue accept confirmation",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.stopTimer()
		assoc := event.pdu.(*pdu.Associate)
		accept, err := primitive.PDUToAccept(assoc, sm.pendingRequest)
		if err != nil {
			sm.log("AE-3: malformed A-ASSOCIATE-AC: %v", err)
			return actionAA8.Callback(sm, event)
		}
		accept.PresentationContexts = presentation.NegotiateAsRequestor(sm.pendingRequest.PresentationContexts, accept.PresentationContexts)
		sm.recordNegotiatedContexts(accept.PresentationContexts)
		sm.peerMaxPDU = accept.MaxPDULength
		sm.observer.AssociationEstablished(sm.id, sm.label)
		sm.indicationCh <- accept
		return sta06
	}}

var actionAE4 = &stateAction{"AE-4", "A-ASSOCIATE-RJ received; issue reject confirmation and close",
	func(sm *stateMachine, event stateEvent) stateType {
		rj := event.pdu.(*pdu.AssociateRJ)
		sm.observer.AssociationRejected(sm.id, sm.label)
		sm.indicationCh <- &primitive.AssociateReject{Result: rj.Result, Source: rj.Source, Reason: rj.Reason}
		sm.closeConnection()
		return sta01
	}}

var actionAE5 = &stateAction{"AE-5", "Connection accepted; start ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.conn = event.conn
		go networkReaderThread(sm.netCh, sm.conn)
		sm.startTimer()
		return sta02
	}}

var actionAE6 = &stateAction{"AE-6", "A-ASSOCIATE-RQ received; negotiate and issue accept or reject",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.stopTimer()
		assoc := event.pdu.(*pdu.Associate)
		reject := func(reason pdu.RejectReason) stateType {
			sm.downcallCh <- stateEvent{
				event: evt08,
				associateReject: &primitive.AssociateReject{
					Result: pdu.RejectResultPermanent,
					Source: pdu.SourceServiceProviderACSE,
					Reason: reason,
				},
			}
			return sta03
		}

		if assoc.ProtocolVersion != pdu.CurrentProtocolVersion {
			sm.log("AE-6: unsupported protocol version 0x%04x", assoc.ProtocolVersion)
			return reject(pdu.ReasonApplicationContextNameNotSupported)
		}

		req, err := primitive.PDUToRequest(assoc)
		if err != nil {
			sm.log("AE-6: malformed A-ASSOCIATE-RQ: %v", err)
			return reject(pdu.ReasonNone)
		}

		accept, err := presentation.NegotiateAsAcceptor(req, sm.providerParams.SupportedContexts, sm.maxPDULength())
		if err != nil {
			sm.log("AE-6: negotiation failed: %v", err)
			if errors.Is(err, presentation.ErrApplicationContextNotSupported) {
				return reject(pdu.ReasonApplicationContextNameNotSupported)
			}
			return reject(pdu.ReasonNone)
		}
		accept.ImplementationClassUID = sm.providerParams.ImplementationClassUID
		accept.ImplementationVersionName = sm.providerParams.ImplementationVersionName
		sm.pendingRequest = req
		sm.peerMaxPDU = req.MaxPDULength
		sm.downcallCh <- stateEvent{event: evt07, associateAccept: accept}
		return sta03
	}}

var actionAE7 = &stateAction{"AE-7", "Send A-ASSOCIATE-AC PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.recordNegotiatedContexts(event.associateAccept.PresentationContexts)
		encoded, err := primitive.AcceptToPDU(event.associateAccept)
		if err != nil {
			sm.log("AE-7: %v", err)
			return actionAA1.Callback(sm, event)
		}
		sm.sendPDU(encoded)
		sm.observer.AssociationEstablished(sm.id, sm.label)
		sm.indicationCh <- event.associateAccept
		return sta06
	}}

var actionAE8 = &stateAction{"AE-8", "Send A-ASSOCIATE-RJ PDU and start ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		reject := event.associateReject
		sm.sendPDU(&pdu.AssociateRJ{Result: reject.Result, Source: reject.Source, Reason: reject.Reason})
		sm.observer.AssociationRejected(sm.id, sm.label)
		sm.indicationCh <- reject
		sm.startTimer()
		return sta13
	}}

// Data transfer actions (PS3.8 Table 9-7).

var actionDT1 = &stateAction{"DT-1", "Send P-DATA-TF PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(primitive.PDataToPDU(event.pdata))
		return sta06
	}}

var actionDT2 = &stateAction{"DT-2", "Issue P-DATA indication primitive",
	func(sm *stateMachine, event stateEvent) stateType {
		p := event.pdu.(*pdu.PDataTF)
		sm.indicationCh <- primitive.PDUToPDataRequest(p)
		return sta06
	}}

// Association release actions (PS3.8 Table 9-8).

var actionAR1 = &stateAction{"AR-1", "Send A-RELEASE-RQ PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(&pdu.ReleaseRQ{})
		return sta07
	}}

var actionAR2 = &stateAction{"AR-2", "Issue A-RELEASE indication primitive",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.indicationCh <- &primitive.ReleaseRequest{}
		return sta08
	}}

var actionAR3 = &stateAction{"AR-3", "Issue A-RELEASE confirmation and close connection",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.indicationCh <- &primitive.ReleaseResponse{}
		sm.closeConnection()
		return sta01
	}}

var actionAR4 = &stateAction{"AR-4", "Send A-RELEASE-RP PDU and start ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(&pdu.ReleaseRP{})
		sm.startTimer()
		return sta13
	}}

var actionAR5 = &stateAction{"AR-5", "Stop ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.stopTimer()
		return sta01
	}}

var actionAR6 = &stateAction{"AR-6", "Issue P-DATA indication",
	func(sm *stateMachine, event stateEvent) stateType {
		p := event.pdu.(*pdu.PDataTF)
		sm.indicationCh <- primitive.PDUToPDataRequest(p)
		return sta07
	}}

var actionAR7 = &stateAction{"AR-7", "Send P-DATA-TF PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(primitive.PDataToPDU(event.pdata))
		return sta08
	}}

var actionAR8 = &stateAction{"AR-8", "Release collision: issue A-RELEASE indication",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.indicationCh <- &primitive.ReleaseRequest{}
		if sm.isRequestor {
			return sta09
		}
		return sta10
	}}

var actionAR9 = &stateAction{"AR-9", "Send A-RELEASE-RP PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(&pdu.ReleaseRP{})
		return sta11
	}}

var actionAR10 = &stateAction{"AR-10", "Issue A-RELEASE confirmation primitive",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.indicationCh <- &primitive.ReleaseResponse{}
		return sta12
	}}

// Association abort actions (PS3.8 Table 9-9).

var actionAA1 = &stateAction{"AA-1", "Send A-ABORT PDU (service-user source); (re)start ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		reason := pdu.AbortReasonNotSpecified
		if sm.currentState == sta02 {
			reason = pdu.AbortReasonUnexpectedPDU
		}
		sm.sendPDU(&pdu.Abort{Source: pdu.SourceServiceUser, Reason: reason})
		sm.restartTimer()
		return sta13
	}}

var actionAA2 = &stateAction{"AA-2", "Stop ARTIM timer; close transport connection",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.stopTimer()
		sm.observer.AssociationAborted(sm.id, sm.label)
		sm.closeConnection()
		return sta01
	}}

var actionAA3 = &stateAction{"AA-3", "Issue A-ABORT or A-P-ABORT indication; close transport connection",
	func(sm *stateMachine, event stateEvent) stateType {
		abort := event.pdu.(*pdu.Abort)
		sm.indicationCh <- &primitive.AbortIndication{Reason: abort.Reason}
		sm.observer.AssociationAborted(sm.id, sm.label)
		sm.closeConnection()
		return sta01
	}}

var actionAA4 = &stateAction{"AA-4", "Issue A-P-ABORT indication primitive",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.indicationCh <- &primitive.AbortIndication{Reason: pdu.AbortReasonNotSpecified}
		sm.observer.AssociationAborted(sm.id, sm.label)
		return sta01
	}}

var actionAA5 = &stateAction{"AA-5", "Stop ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.stopTimer()
		return sta01
	}}

var actionAA6 = &stateAction{"AA-6", "Ignore PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		return sta13
	}}

var actionAA7 = &stateAction{"AA-7", "Send A-ABORT PDU",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(&pdu.Abort{Source: pdu.SourceServiceUser, Reason: pdu.AbortReasonNotSpecified})
		return sta13
	}}

var actionAA8 = &stateAction{"AA-8", "Send A-ABORT PDU (service-provider source); issue A-P-ABORT indication; start ARTIM timer",
	func(sm *stateMachine, event stateEvent) stateType {
		sm.sendPDU(&pdu.Abort{Source: pdu.SourceServiceProviderACSE, Reason: pdu.AbortReasonNotSpecified})
		sm.indicationCh <- &primitive.AbortIndication{Reason: pdu.AbortReasonNotSpecified}
		sm.observer.AssociationAborted(sm.id, sm.label)
		sm.startTimer()
		return sta13
	}}

// networkReaderThread blocks on successive pdu.Decode calls and translates
// each complete PDU (or read failure) into a stateEvent on ch. It owns ch
// and closes it when the connection ends; the run loop reports a receive
// from the closed netCh as evt17 (transport connection closed).
func networkReaderThread(ch chan stateEvent, conn net.Conn) {
	defer close(ch)
	for {
		p, err := pdu.Decode(conn)
		if err != nil {
			if isClosedConnError(err) {
				ch <- stateEvent{event: evt17}
			} else {
				ch <- stateEvent{event: evt19, err: err}
			}
			return
		}
		switch n := p.(type) {
		case *pdu.Associate:
			if n.Type == pdu.TypeAssociateRQ {
				ch <- stateEvent{event: evt06, pdu: n}
			} else {
				ch <- stateEvent{event: evt03, pdu: n}
			}
		case *pdu.AssociateRJ:
			ch <- stateEvent{event: evt04, pdu: n}
		case *pdu.PDataTF:
			ch <- stateEvent{event: evt10, pdu: n}
		case *pdu.ReleaseRQ:
			ch <- stateEvent{event: evt12, pdu: n}
		case *pdu.ReleaseRP:
			ch <- stateEvent{event: evt13, pdu: n}
		case *pdu.Abort:
			ch <- stateEvent{event: evt16, pdu: n}
		default:
			ch <- stateEvent{event: evt19, err: fmt.Errorf("dul: unhandled PDU type %T", p)}
		}
	}
}

func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
