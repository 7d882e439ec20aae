package dul

import (
	"fmt"
	"net"

	"github.com/meridianhealth/dicomul/pdu"
	"github.com/meridianhealth/dicomul/primitive"
)

type eventType int

const (
	evt01 eventType = iota + 1
	evt02
	evt03
	evt04
	evt05
	evt06
	evt07
	evt08
	evt09
	evt10
	evt11
	evt12
	evt13
	evt14
	evt15
	evt16
	evt17
	evt18
	evt19
)

var eventDescriptions = map[eventType]string{
	evt01: "A-ASSOCIATE request (local user)",
	evt02: "Connection established (service user)",
	evt03: "A-ASSOCIATE-AC PDU received",
	evt04: "A-ASSOCIATE-RJ PDU received",
	evt05: "Connection accepted (service provider)",
	evt06: "A-ASSOCIATE-RQ PDU received",
	evt07: "A-ASSOCIATE response primitive (accept)",
	evt08: "A-ASSOCIATE response primitive (reject)",
	evt09: "P-DATA request primitive",
	evt10: "P-DATA-TF PDU received",
	evt11: "A-RELEASE request primitive",
	evt12: "A-RELEASE-RQ PDU received",
	evt13: "A-RELEASE-RP PDU received",
	evt14: "A-RELEASE response primitive",
	evt15: "A-ABORT request primitive",
	evt16: "A-ABORT PDU received",
	evt17: "Transport connection closed",
	evt18: "ARTIM timer expired",
	evt19: "Unrecognized or invalid PDU received",
}

func (e eventType) String() string {
	desc, ok := eventDescriptions[e]
	if !ok {
		return fmt.Sprintf("evt%02d(unknown)", e)
	}
	return fmt.Sprintf("evt%02d(%s)", e, desc)
}

// stateEvent is the single shape carried over every internal channel: the
// network reader, the ARTIM timer, and the upper layer's downcalls all
// produce stateEvents for the run loop to consume. At most one payload is
// set, depending on event: pdu for a received PDU, conn for a new transport
// connection, err for a read or decode failure, or one of the primitive
// fields for a downcall.
type stateEvent struct {
	event eventType

	pdu  pdu.PDU
	conn net.Conn
	err  error

	associateRequest *primitive.AssociateRequest
	associateAccept  *primitive.AssociateAccept
	associateReject  *primitive.AssociateReject
	pdata            *primitive.PDataRequest
	abortSource      primitive.AbortRequest

	debugState stateType // set on ARTIM expiry, for diagnostics only
}

func (e stateEvent) String() string {
	return fmt.Sprintf("%s(err=%v)", e.event, e.err)
}
