package dul

import (
	"github.com/google/uuid"

	"github.com/meridianhealth/dicomul/pdu"
)

// Observer receives notifications of state-machine activity for metrics and
// logging, without coupling the state machine itself to any particular
// instrumentation backend. from and to are the PS3.8 9.2 state names (e.g.
// "sta01(Idle)"), rendered as strings rather than the package-private
// stateType so external packages can implement Observer. A Provider with no
// Observer configured uses noopObserver.
type Observer interface {
	StateTransition(id uuid.UUID, label string, from, to string, event string)
	PDUSent(id uuid.UUID, t pdu.Type)
	PDUReceived(id uuid.UUID, t pdu.Type)
	AssociationEstablished(id uuid.UUID, label string)
	AssociationRejected(id uuid.UUID, label string)
	AssociationAborted(id uuid.UUID, label string)
	AssociationClosed(id uuid.UUID, label string)
}

type noopObserver struct{}

func (noopObserver) StateTransition(uuid.UUID, string, string, string, string) {}
func (noopObserver) PDUSent(uuid.UUID, pdu.Type)                               {}
func (noopObserver) PDUReceived(uuid.UUID, pdu.Type)                           {}
func (noopObserver) AssociationEstablished(uuid.UUID, string)                  {}
func (noopObserver) AssociationRejected(uuid.UUID, string)                     {}
func (noopObserver) AssociationAborted(uuid.UUID, string)                      {}
func (noopObserver) AssociationClosed(uuid.UUID, string)                       {}
