package dul

import "fmt"

// ProtocolError reports a violation of the Upper Layer protocol detected by
// the state machine itself, as opposed to a transport-level failure. The
// state machine does not return it: an association aborted for a protocol
// violation is reported to the upper layer as a primitive.AbortIndication.
type ProtocolError struct {
	State  stateType
	Event  eventType
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("dul: protocol error in %s on %s: %s", e.State, e.Event, e.Reason)
}
