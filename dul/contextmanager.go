package dul

import "github.com/meridianhealth/dicomul/uid"

// negotiatedContext is what an association actually agreed to for one
// Presentation Context ID, kept so that P-DATA fragments can be addressed
// and inspected (for diagnostics) by context without re-running the
// negotiator. The negotiation algorithm itself lives in package
// presentation; this is just the result table for one association.
type negotiatedContext struct {
	AbstractSyntax uid.UID
	TransferSyntax uid.UID
	Accepted       bool
}

// contextFor looks up the negotiated context for id, reporting whether it
// was accepted during association establishment.
func (sm *stateMachine) contextFor(id byte) (negotiatedContext, bool) {
	c, ok := sm.contexts[id]
	return c, ok && c.Accepted
}
