package dul

// stateTransitionKey identifies one cell of the PS3.8 9.2.1 Table 9-10
// state transition table.
type stateTransitionKey struct {
	state stateType
	event eventType
}

// stateTransitions is deliberately sparse: it lists only the transitions
// PS3.8 defines as legal. findAction treats any (state, event) pair not in
// this table as a protocol violation and falls back to an abort action,
// which is how the table stays total without enumerating every invalid
// cell explicitly (PS3.8 9.2.1 marks those cells "association error").
var stateTransitions = map[stateTransitionKey]*stateAction{
	// Association establishment, requestor side.
	{sta01, evt01}: actionAE1,
	{sta04, evt02}: actionAE2,
	{sta05, evt03}: actionAE3,
	{sta05, evt04}: actionAE4,

	// Association establishment, acceptor side.
	{sta01, evt05}: actionAE5,
	{sta02, evt06}: actionAE6,
	{sta03, evt07}: actionAE7,
	{sta03, evt08}: actionAE8,

	// Data transfer.
	{sta06, evt09}: actionDT1,
	{sta06, evt10}: actionDT2,

	// Association release.
	{sta06, evt11}: actionAR1,
	{sta06, evt12}: actionAR2,
	{sta07, evt13}: actionAR3,
	{sta08, evt14}: actionAR4,
	{sta13, evt17}: actionAR5,
	{sta07, evt10}: actionAR6,
	{sta08, evt09}: actionAR7,
	{sta07, evt12}: actionAR8, // next state depends on sm.isRequestor; see actionAR8
	{sta09, evt14}: actionAR9,
	{sta10, evt13}: actionAR10,
	{sta11, evt13}: actionAR3,
	{sta12, evt14}: actionAR4,

	// Local abort request, any state where a connection may exist.
	{sta02, evt15}: actionAA1,
	{sta03, evt15}: actionAA1,
	{sta04, evt15}: actionAA2,
	{sta05, evt15}: actionAA1,
	{sta06, evt15}: actionAA1,
	{sta07, evt15}: actionAA1,
	{sta08, evt15}: actionAA1,
	{sta09, evt15}: actionAA1,
	{sta10, evt15}: actionAA1,
	{sta11, evt15}: actionAA1,
	{sta12, evt15}: actionAA1,

	// Peer A-ABORT PDU received.
	{sta02, evt16}: actionAA2,
	{sta03, evt16}: actionAA3,
	{sta04, evt16}: actionAA3,
	{sta05, evt16}: actionAA3,
	{sta06, evt16}: actionAA3,
	{sta07, evt16}: actionAA3,
	{sta08, evt16}: actionAA3,
	{sta09, evt16}: actionAA3,
	{sta10, evt16}: actionAA3,
	{sta11, evt16}: actionAA3,
	{sta12, evt16}: actionAA3,
	{sta13, evt16}: actionAA2,

	// Transport connection closed unexpectedly.
	{sta02, evt17}: actionAA5,
	{sta03, evt17}: actionAA4,
	{sta04, evt17}: actionAA4,
	{sta05, evt17}: actionAA4,
	{sta06, evt17}: actionAA4,
	{sta07, evt17}: actionAA4,
	{sta08, evt17}: actionAA4,
	{sta09, evt17}: actionAA4,
	{sta10, evt17}: actionAA4,
	{sta11, evt17}: actionAA4,
	{sta12, evt17}: actionAA4,

	// ARTIM timer expiry.
	{sta02, evt18}: actionAA2,
	{sta13, evt18}: actionAA2,

	// Unrecognized or malformed PDU received.
	{sta02, evt19}: actionAA1,
	{sta03, evt19}: actionAA8,
	{sta04, evt19}: actionAA8,
	{sta05, evt19}: actionAA8,
	{sta06, evt19}: actionAA8,
	{sta07, evt19}: actionAA8,
	{sta08, evt19}: actionAA8,
	{sta09, evt19}: actionAA8,
	{sta10, evt19}: actionAA8,
	{sta11, evt19}: actionAA8,
	{sta12, evt19}: actionAA8,
	{sta13, evt19}: actionAA7,

	// Sta13 ignores most PDUs while waiting for the peer to close, except
	// an A-ASSOCIATE-RQ, which gets an immediate abort in reply.
	{sta13, evt03}: actionAA6,
	{sta13, evt04}: actionAA6,
	{sta13, evt06}: actionAA7,
	{sta13, evt10}: actionAA6,
	{sta13, evt12}: actionAA6,
	{sta13, evt13}: actionAA6,
}

// defaultAbortAction is used for any (state, event) pair absent from
// stateTransitions: a peer PDU is unexpected in the current state, a
// service-provider-sourced A-ABORT closes the association.
var defaultAbortAction = actionAA8

// findAction looks up the action for the current state and an incoming
// event, falling back to defaultAbortAction so every reachable
// (state, event) pair is handled -- the FSM never "does nothing" on an
// out-of-sequence event.
func findAction(currentState stateType, event eventType) *stateAction {
	if a, ok := stateTransitions[stateTransitionKey{currentState, event}]; ok {
		return a
	}
	return defaultAbortAction
}
