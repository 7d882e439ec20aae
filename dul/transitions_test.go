package dul

import "testing"

// TestFindAction_NeverNil checks the FSM's totality property: every
// reachable (state, event) pair resolves to some action, either an explicit
// table entry or the default abort fallback. A nil action would mean the
// run loop panics on an unexpected event instead of aborting the
// association.
func TestFindAction_NeverNil(t *testing.T) {
	states := []stateType{sta01, sta02, sta03, sta04, sta05, sta06, sta07, sta08, sta09, sta10, sta11, sta12, sta13}
	events := []eventType{evt01, evt02, evt03, evt04, evt05, evt06, evt07, evt08, evt09, evt10,
		evt11, evt12, evt13, evt14, evt15, evt16, evt17, evt18, evt19}

	for _, s := range states {
		for _, e := range events {
			if a := findAction(s, e); a == nil {
				t.Fatalf("findAction(%s, %s) returned nil", s, e)
			}
		}
	}
}

// TestFindAction_EstablishmentPath checks the action sequence a successful
// requestor-side association walks through, from establishment to a normal
// release.
func TestFindAction_EstablishmentPath(t *testing.T) {
	cases := []struct {
		state stateType
		event eventType
		want  *stateAction
	}{
		{sta01, evt01, actionAE1},
		{sta04, evt02, actionAE2},
		{sta05, evt03, actionAE3},
		{sta06, evt11, actionAR1},
		{sta07, evt13, actionAR3},
	}
	for _, c := range cases {
		if got := findAction(c.state, c.event); got != c.want {
			t.Errorf("findAction(%s, %s) = %s, want %s", c.state, c.event, got.Name, c.want.Name)
		}
	}
}

// TestFindAction_UnknownPairAborts checks that a PDU arriving in a state
// that does not expect it falls back to an abort action rather than being
// silently accepted.
func TestFindAction_UnknownPairAborts(t *testing.T) {
	got := findAction(sta01, evt10) // P-DATA-TF before any association exists
	if got != defaultAbortAction {
		t.Errorf("findAction(sta01, evt10) = %s, want default abort action", got.Name)
	}
}

// TestFindAction_ReleaseCollisionAndPreAssociationAbort pins down four
// table cells PS3.8 Table 9-8 and Table 9-9 specify exactly, none of which
// TestFindAction_NeverNil's totality check can distinguish from any other
// non-nil action.
func TestFindAction_ReleaseCollisionAndPreAssociationAbort(t *testing.T) {
	cases := []struct {
		state stateType
		event eventType
		want  *stateAction
	}{
		// Acceptor side of a release collision: Sta12 still owes the peer
		// an A-RELEASE-RP, so Evt14 here must send it (AR-4), not confirm
		// and close as if no PDU were still due (AR-3).
		{sta12, evt14, actionAR4},
		// Sta02 precedes delivery of any A-ASSOCIATE indication, so a peer
		// A-ABORT or a dropped transport connection there has nothing to
		// report upward -- AA-2/AA-5, not the indication-issuing AA-3/AA-4.
		{sta02, evt16, actionAA2},
		{sta02, evt17, actionAA5},
		// Sta13 is waiting for the peer to close after sending its own
		// A-ABORT; an unrecognized or malformed PDU arriving there still
		// gets an A-ABORT in reply (AA-7), it is not silently ignored (AA-6).
		{sta13, evt19, actionAA7},
	}
	for _, c := range cases {
		if got := findAction(c.state, c.event); got != c.want {
			t.Errorf("findAction(%s, %s) = %s, want %s", c.state, c.event, got.Name, c.want.Name)
		}
	}
}
