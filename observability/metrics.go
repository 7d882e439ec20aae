// Package observability wires the dul package's Observer hook into
// Prometheus metrics and exposes them, along with a health endpoint, over
// HTTP. It is a sidecar: nothing in dul or the rest of this module imports
// it, it only consumes dul's exported Observer interface.
package observability

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/meridianhealth/dicomul/dul"
	"github.com/meridianhealth/dicomul/pdu"
)

// Metrics implements dul.Observer, recording the lifecycle of every
// association a Provider drives as Prometheus series. Register it with a
// prometheus.Registry via NewMetrics, then pass it as the observer argument
// to dul.NewRequestor, dul.NewAcceptor, or dul.Serve.
type Metrics struct {
	transitions  *prometheus.CounterVec
	pdusSent     *prometheus.CounterVec
	pdusReceived *prometheus.CounterVec

	associationsEstablished prometheus.Counter
	associationsRejected    prometheus.Counter
	associationsAborted     prometheus.Counter
	associationsClosed      prometheus.Counter
	associationLifetime     *prometheus.HistogramVec

	mu        sync.Mutex
	startedAt map[uuid.UUID]time.Time
}

// NewMetrics registers a Metrics collector against reg and returns it.
// Passing a fresh prometheus.NewRegistry() keeps these series isolated from
// the default global registry, the way a library embedded in a larger
// process should.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		startedAt: map[uuid.UUID]time.Time{},
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "state_transitions_total",
			Help:      "Count of upper layer state machine transitions, by originating state, destination state, and triggering event.",
		}, []string{"from", "to", "event"}),
		pdusSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "pdus_sent_total",
			Help:      "Count of Upper Layer PDUs sent, by PDU type.",
		}, []string{"pdu_type"}),
		pdusReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "pdus_received_total",
			Help:      "Count of Upper Layer PDUs received, by PDU type.",
		}, []string{"pdu_type"}),
		associationsEstablished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "associations_established_total",
			Help:      "Count of associations that reached the established state.",
		}),
		associationsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "associations_rejected_total",
			Help:      "Count of associations rejected during establishment.",
		}),
		associationsAborted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "associations_aborted_total",
			Help:      "Count of associations ended by A-ABORT, local or peer-sourced.",
		}),
		associationsClosed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "associations_closed_total",
			Help:      "Count of transport connections closed by the state machine.",
		}),
		associationLifetime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dicomul",
			Subsystem: "dul",
			Name:      "association_lifetime_seconds",
			Help:      "Time between an association reaching established and its connection closing.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
	}
}

var _ dul.Observer = (*Metrics)(nil)

func (m *Metrics) StateTransition(_ uuid.UUID, _ string, from, to, event string) {
	m.transitions.WithLabelValues(from, to, event).Inc()
}

func (m *Metrics) PDUSent(_ uuid.UUID, t pdu.Type) {
	m.pdusSent.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) PDUReceived(_ uuid.UUID, t pdu.Type) {
	m.pdusReceived.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) AssociationEstablished(id uuid.UUID, _ string) {
	m.associationsEstablished.Inc()
	m.mu.Lock()
	m.startedAt[id] = time.Now()
	m.mu.Unlock()
}

func (m *Metrics) AssociationRejected(_ uuid.UUID, _ string) { m.associationsRejected.Inc() }

func (m *Metrics) AssociationAborted(id uuid.UUID, _ string) {
	m.associationsAborted.Inc()
	m.observeLifetime(id, "aborted")
}

func (m *Metrics) AssociationClosed(id uuid.UUID, _ string) {
	m.associationsClosed.Inc()
	m.observeLifetime(id, "closed")
}

// observeLifetime records the established-to-closed duration for id, the
// way an association that never established (rejected during negotiation)
// has no lifetime to record.
func (m *Metrics) observeLifetime(id uuid.UUID, result string) {
	m.mu.Lock()
	start, ok := m.startedAt[id]
	if ok {
		delete(m.startedAt, id)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	m.associationLifetime.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
