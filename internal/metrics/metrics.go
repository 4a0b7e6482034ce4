package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	storeMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "automeet_store_mutations_total",
		Help: "Total number of persistence-engine mutations by entity and operation",
	}, []string{"entity", "operation"})
	auditWritesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "automeet_audit_writes_total",
		Help: "Total number of activity log records written",
	})
	auditWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "automeet_audit_write_failures_total",
		Help: "Total number of failed activity log writes",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(storeMutationsTotal, auditWritesTotal, auditWriteFailuresTotal)
}

// IncStoreMutation increments the mutation counter for an entity/operation pair.
func IncStoreMutation(entity, operation string) {
	storeMutationsTotal.WithLabelValues(entity, operation).Inc()
}

// IncAuditWrite increments the successful audit write counter.
func IncAuditWrite() { auditWritesTotal.Inc() }

// IncAuditWriteFailure increments the failed audit write counter.
func IncAuditWriteFailure() { auditWriteFailuresTotal.Inc() }
