package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics records mutation outcomes for the account and personnel
// registries.
type RegistryMetrics struct {
	mutations    *prometheus.CounterVec
	persistFails *prometheus.CounterVec
}

// NewRegistryMetrics registers the registry metrics on the provided registerer.
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	if reg == nil {
		return &RegistryMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_mutations_total",
		Help: "Committed registry mutations by collection and operation.",
	}, []string{"collection", "op"})
	persistFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_persist_failures_total",
		Help: "Registry mutations rolled back because the store write failed.",
	}, []string{"collection", "op"})
	reg.MustRegister(mutations, persistFails)
	return &RegistryMetrics{
		mutations:    mutations,
		persistFails: persistFails,
	}
}

// IncMutation increments the committed-mutation counter.
func (m *RegistryMetrics) IncMutation(collection, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(collection), normalizeLabel(op)).Inc()
}

// IncPersistFailure increments the rolled-back-mutation counter.
func (m *RegistryMetrics) IncPersistFailure(collection, op string) {
	if m == nil || m.persistFails == nil {
		return
	}
	m.persistFails.WithLabelValues(normalizeLabel(collection), normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
