package dul

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/grailbio/go-dicom/dicomlog"

	"github.com/meridianhealth/dicomul/primitive"
)

// Provider is the public handle to one association's Upper Layer state
// machine: construct one with NewRequestor or NewAcceptor, drive it with
// SendPrimitive, and read indications from ReceivePrimitive until it
// reports io.EOF (the association closed).
type Provider struct {
	sm *stateMachine
}

// NewRequestor opens a transport connection to address and drives the
// requestor side of association establishment (AE-1, AE-2): the
// A-ASSOCIATE-RQ PDU is sent before this call returns. The caller should
// follow up with ReceivePrimitive to obtain the A-ASSOCIATE-AC or -RJ.
func NewRequestor(ctx context.Context, network, address string, params ServiceUserParams, observer Observer) (*Provider, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("dul: dial %s %s: %w", network, address, err)
	}

	sm := newStateMachine(uuid.New(), fmt.Sprintf("%s->%s", params.CallingAETitle, params.CalledAETitle), true, observer)
	sm.userParams = params

	sm.step(stateEvent{event: evt01})
	sm.step(stateEvent{event: evt02, conn: conn})

	p := &Provider{sm: sm}
	go sm.run()
	return p, nil
}

// NewAcceptor drives the acceptor side of association establishment over an
// already-accepted transport connection (AE-5): it starts the ARTIM timer
// and waits for the peer's A-ASSOCIATE-RQ. The negotiated accept or reject
// is decided automatically from params.SupportedContexts and delivered as
// an indication via ReceivePrimitive, same as a peer-originated one would
// be for a requestor.
func NewAcceptor(conn net.Conn, params ServiceProviderParams, observer Observer) (*Provider, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	sm := newStateMachine(uuid.New(), fmt.Sprintf("accept<-%s", conn.RemoteAddr()), false, observer)
	sm.providerParams = params

	sm.step(stateEvent{event: evt05, conn: conn})

	p := &Provider{sm: sm}
	go sm.run()
	return p, nil
}

// Serve accepts connections from ln in a loop, drives each through
// NewAcceptor, and hands the resulting Provider to handler on its own
// goroutine. Serve blocks until ln.Accept fails (typically because ln was
// closed) and then returns that error.
func Serve(ln net.Listener, params ServiceProviderParams, observer Observer, handler func(*Provider)) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("dul: accept: %w", err)
		}
		go func() {
			p, err := NewAcceptor(conn, params, observer)
			if err != nil {
				dicomlog.Vprintf(0, "dul.Serve: rejecting connection from %v: %v", conn.RemoteAddr(), err)
				conn.Close()
				return
			}
			handler(p)
		}()
	}
}

// ID returns the correlation identifier assigned to this association at
// construction time, suitable for tying together log lines and metrics
// across the lifetime of one association.
func (p *Provider) ID() uuid.UUID { return p.sm.id }

// State reports the current PS3.8 9.2 state, for diagnostics only; callers
// should never branch application logic on it.
func (p *Provider) State() string { return p.sm.currentState.String() }

// SendPrimitive issues a request primitive to the state machine: one of
// *primitive.PDataRequest, *primitive.ReleaseRequest,
// *primitive.ReleaseResponse, or *primitive.AbortRequest. The accept/reject
// decision for an incoming association is made automatically by the
// negotiator (see NewAcceptor); there is no A-ASSOCIATE response primitive
// to send explicitly.
func (p *Provider) SendPrimitive(prim any) error {
	switch v := prim.(type) {
	case *primitive.PDataRequest:
		p.sm.downcallCh <- stateEvent{event: evt09, pdata: v}
	case *primitive.ReleaseRequest:
		p.sm.downcallCh <- stateEvent{event: evt11}
	case *primitive.ReleaseResponse:
		p.sm.downcallCh <- stateEvent{event: evt14}
	case *primitive.AbortRequest:
		p.sm.downcallCh <- stateEvent{event: evt15, abortSource: *v}
	default:
		return fmt.Errorf("dul: unsupported primitive type %T", prim)
	}
	return nil
}

// ReceivePrimitive blocks until the state machine delivers the next
// indication or confirmation primitive, ctx is cancelled, or the
// association closes (io.EOF).
func (p *Provider) ReceivePrimitive(ctx context.Context) (any, error) {
	select {
	case v, ok := <-p.sm.indicationCh:
		if !ok {
			return nil, io.EOF
		}
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (sm *stateMachine) getNextEvent() stateEvent {
	select {
	case e, ok := <-sm.netCh:
		if !ok {
			return stateEvent{event: evt17}
		}
		return e
	case e := <-sm.downcallCh:
		return e
	case e := <-sm.timerCh:
		return e
	}
}

// step looks up the action for event given the current state, runs it, and
// advances currentState, notifying the observer either way. It is the one
// place state transitions happen, used both by the run loop and by the
// synchronous priming steps NewRequestor/NewAcceptor perform before
// starting that loop.
func (sm *stateMachine) step(event stateEvent) stateType {
	action := findAction(sm.currentState, event.event)
	from := sm.currentState
	next := action.Callback(sm, event)
	sm.observer.StateTransition(sm.id, sm.label, from.String(), next.String(), event.event.String())
	dicomlog.Vprintf(2, "dul.stateMachine(%s): %s + %s -> %s via %s", sm.label, from, event.event, next, action.Name)
	sm.currentState = next
	return next
}

// runOneStep consumes exactly one event from the machine's channels and
// applies it. It reports whether the machine is still running; it returns
// false once the machine has returned to sta01 (association fully closed)
// so the caller's run loop can exit and release the indication channel.
func (sm *stateMachine) runOneStep() bool {
	return sm.step(sm.getNextEvent()) != sta01
}

func (sm *stateMachine) run() {
	for sm.runOneStep() {
	}
	close(sm.indicationCh)
}
