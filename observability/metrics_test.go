package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/dicomul/pdu"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := &dto.Metric{}
	require.NoError(t, (<-ch).Write(m))
	return m.GetCounter().GetValue()
}

func TestMetrics_RecordsLifecycleEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	id := uuid.New()

	m.StateTransition(id, "test", "sta01(Idle)", "sta04(Awaiting transport connection opening to complete)", "evt01")
	m.PDUSent(id, pdu.TypeAssociateRQ)
	m.PDUReceived(id, pdu.TypeAssociateAC)
	m.AssociationEstablished(id, "test")
	m.AssociationRejected(id, "test")
	m.AssociationAborted(id, "test")
	m.AssociationClosed(id, "test")

	assert.Equal(t, float64(1), counterValue(t, m.transitions.WithLabelValues(
		"sta01(Idle)", "sta04(Awaiting transport connection opening to complete)", "evt01")))
	assert.Equal(t, float64(1), counterValue(t, m.pdusSent.WithLabelValues(pdu.TypeAssociateRQ.String())))
	assert.Equal(t, float64(1), counterValue(t, m.pdusReceived.WithLabelValues(pdu.TypeAssociateAC.String())))
	assert.Equal(t, float64(1), counterValue(t, m.associationsEstablished))
	assert.Equal(t, float64(1), counterValue(t, m.associationsRejected))
	assert.Equal(t, float64(1), counterValue(t, m.associationsAborted))
	assert.Equal(t, float64(1), counterValue(t, m.associationsClosed))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	srv := httptest.NewServer(Router(reg, ServerConfig{}))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
