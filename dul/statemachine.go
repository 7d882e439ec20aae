package dul

import (
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/grailbio/go-dicom/dicomlog"

	"github.com/meridianhealth/dicomul/aetitle"
	"github.com/meridianhealth/dicomul/pdu"
	"github.com/meridianhealth/dicomul/pdu/pduitem"
	"github.com/meridianhealth/dicomul/primitive"
	"github.com/meridianhealth/dicomul/uid"
)

// applicationContextName is the only application context this package
// negotiates; PS3.8 does not define any others in practice.
const applicationContextName = uid.DICOMApplicationContextName

// stateMachine drives one association's PS3.8 9.2 finite-state machine over
// a single net.Conn. A Provider owns exactly one stateMachine for its
// lifetime; Provider is the public-facing wrapper, stateMachine is the run
// loop underneath it.
type stateMachine struct {
	id    uuid.UUID
	label string

	isRequestor    bool
	userParams     ServiceUserParams
	providerParams ServiceProviderParams

	conn net.Conn

	currentState stateType
	artimTimer   *time.Timer

	pendingRequest *primitive.AssociateRequest
	peerMaxPDU     uint32
	contexts       map[byte]negotiatedContext

	netCh        chan stateEvent
	downcallCh   chan stateEvent
	timerCh      chan stateEvent
	indicationCh chan any

	observer Observer
}

func newStateMachine(id uuid.UUID, label string, isRequestor bool, observer Observer) *stateMachine {
	if observer == nil {
		observer = noopObserver{}
	}
	return &stateMachine{
		id:           id,
		label:        label,
		isRequestor:  isRequestor,
		currentState: sta01,
		contexts:     map[byte]negotiatedContext{},
		netCh:        make(chan stateEvent, 8),
		downcallCh:   make(chan stateEvent, 8),
		timerCh:      make(chan stateEvent, 1),
		indicationCh: make(chan any, 8),
		observer:     observer,
	}
}

func (sm *stateMachine) maxPDULength() uint32 {
	if sm.isRequestor {
		return sm.userParams.MaxPDULength
	}
	return sm.providerParams.MaxPDULength
}

func (sm *stateMachine) artimTimeout() time.Duration {
	if sm.isRequestor {
		return sm.userParams.ARTIMTimeout
	}
	return sm.providerParams.ARTIMTimeout
}

func (sm *stateMachine) log(format string, args ...any) {
	dicomlog.Vprintf(0, "dul.stateMachine(%s): "+format, append([]any{sm.label}, args...)...)
}

// buildAssociateRequest renders this machine's ServiceUserParams into the
// wire-agnostic AssociateRequest primitive that AE-2 encodes and sends.
func (sm *stateMachine) buildAssociateRequest() *primitive.AssociateRequest {
	p := sm.userParams
	req := &primitive.AssociateRequest{
		CalledAETitle:             aetitle.MustParse(p.CalledAETitle),
		CallingAETitle:            aetitle.MustParse(p.CallingAETitle),
		ApplicationContextName:    applicationContextName,
		MaxPDULength:              p.MaxPDULength,
		ImplementationClassUID:    p.ImplementationClassUID,
		ImplementationVersionName: p.ImplementationVersionName,
	}
	contextID := byte(1)
	for _, offer := range p.PresentationContexts {
		pc := primitive.PresentationContextProposal{
			ID:             contextID,
			AbstractSyntax: uid.UID(offer.AbstractSyntax),
		}
		for _, ts := range offer.TransferSyntaxes {
			pc.TransferSyntaxes = append(pc.TransferSyntaxes, uid.UID(ts))
		}
		req.PresentationContexts = append(req.PresentationContexts, pc)
		contextID += 2
	}
	return req
}

// recordNegotiatedContexts populates the per-association context table from
// an AssociateAccept's results; contextFor reads it back. DT-1/DT-2 do not
// consult this table: P-DATA fragments are passed through without checking
// their context ID against it.
func (sm *stateMachine) recordNegotiatedContexts(results []primitive.PresentationContextResult) {
	for _, r := range results {
		sm.contexts[r.ID] = negotiatedContext{
			AbstractSyntax: r.AbstractSyntax,
			TransferSyntax: r.TransferSyntax,
			Accepted:       r.Result == pduitem.ResultAcceptance,
		}
	}
}

func (sm *stateMachine) sendPDU(p pdu.PDU) {
	encoded, err := pdu.Encode(p)
	if err != nil {
		sm.log("failed to encode %s: %v", p.PDUType(), err)
		sm.closeConnection()
		return
	}
	dicomlog.Vprintf(2, "dul.stateMachine(%s): sendPDU: %v", sm.label, p)
	if sm.conn == nil {
		return
	}
	n, err := sm.conn.Write(encoded)
	if err != nil || n != len(encoded) {
		sm.log("failed to write %s: %d/%d bytes written, err=%v", p.PDUType(), n, len(encoded), err)
		sm.closeConnection()
		return
	}
	sm.observer.PDUSent(sm.id, p.PDUType())
}

func (sm *stateMachine) closeConnection() {
	if sm.conn == nil {
		return
	}
	dicomlog.Vprintf(1, "dul.stateMachine(%s): closing connection %v", sm.label, sm.conn.RemoteAddr())
	sm.conn.Close()
	sm.conn = nil
	sm.observer.AssociationClosed(sm.id, sm.label)
}

func (sm *stateMachine) startTimer() {
	sm.stopTimer()
	timeout := sm.artimTimeout()
	if timeout <= 0 {
		timeout = DefaultARTIMTimeout
	}
	expiredAt := sm.currentState
	sm.artimTimer = time.AfterFunc(timeout, func() {
		sm.timerCh <- stateEvent{event: evt18, debugState: expiredAt}
	})
}

func (sm *stateMachine) restartTimer() { sm.startTimer() }

func (sm *stateMachine) stopTimer() {
	if sm.artimTimer != nil {
		sm.artimTimer.Stop()
		sm.artimTimer = nil
	}
}

func (sm *stateMachine) String() string {
	return fmt.Sprintf("stateMachine{label:%s state:%s}", sm.label, sm.currentState)
}
