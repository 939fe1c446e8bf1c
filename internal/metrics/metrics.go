// Package metrics holds the Prometheus collectors for the picker and its
// collaborator lookups.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"citypick/internal/eventbus"
)

const namespace = "citypick"

// Metrics holds the counters and histograms exported by citypick.
type Metrics struct {
	Registry *prometheus.Registry

	// Collaborator lookups.
	Lookups        *prometheus.CounterVec   // labels: op, outcome={success,error}
	LookupDuration *prometheus.HistogramVec // labels: op

	// Picker state coordination.
	DiscardedResults *prometheus.CounterVec // labels: binding
	FailedBindings   *prometheus.CounterVec // labels: binding
	CapacityWarnings prometheus.Counter
	BasketMutations  *prometheus.CounterVec // labels: cause
	Commits          prometheus.Counter
	Cancels          prometheus.Counter
	SearchesIssued   *prometheus.CounterVec // labels: trigger={debounce,submit}
}

// New creates all collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Collaborator lookups by operation and outcome.",
		}, []string{"op", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of collaborator lookups.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op"}),
		DiscardedResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discarded_results_total",
			Help:      "Lookup results dropped because a newer lookup superseded them.",
		}, []string{"binding"}),
		FailedBindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "binding_failures_total",
			Help:      "Lookups that left a binding in the failed state.",
		}, []string{"binding"}),
		CapacityWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capacity_warnings_total",
			Help:      "Appends rejected because the basket was full.",
		}),
		BasketMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_mutations_total",
			Help:      "Applied basket mutations by cause.",
		}, []string{"cause"}),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Baskets handed back to the host.",
		}),
		Cancels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancels_total",
			Help:      "Picker sessions closed without committing.",
		}),
		SearchesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search requests issued by trigger.",
		}, []string{"trigger"}),
	}

	m.Registry.MustRegister(
		m.Lookups,
		m.LookupDuration,
		m.DiscardedResults,
		m.FailedBindings,
		m.CapacityWarnings,
		m.BasketMutations,
		m.Commits,
		m.Cancels,
		m.SearchesIssued,
	)
	return m
}

// ObserveLookup records one collaborator call.
func (m *Metrics) ObserveLookup(op string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Lookups.WithLabelValues(op, outcome).Inc()
	m.LookupDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Subscribe wires the collectors to picker domain events. The returned
// function unsubscribes all of them.
func (m *Metrics) Subscribe(bus eventbus.EventBus) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventBasketChanged, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.BasketChangedEvent); ok {
				m.BasketMutations.WithLabelValues(ev.Cause).Inc()
			}
		}),
		bus.Subscribe(eventbus.EventCommitted, func(eventbus.DomainEvent) { m.Commits.Inc() }),
		bus.Subscribe(eventbus.EventCancelled, func(eventbus.DomainEvent) { m.Cancels.Inc() }),
		bus.Subscribe(eventbus.EventCapacityExceeded, func(eventbus.DomainEvent) { m.CapacityWarnings.Inc() }),
		bus.Subscribe(eventbus.EventLookupFailed, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.LookupFailedEvent); ok {
				m.FailedBindings.WithLabelValues(ev.Binding).Inc()
			}
		}),
		bus.Subscribe(eventbus.EventResultDiscarded, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ResultDiscardedEvent); ok {
				m.DiscardedResults.WithLabelValues(ev.Binding).Inc()
			}
		}),
		bus.Subscribe(eventbus.EventSearchIssued, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchIssuedEvent); ok {
				trigger := "debounce"
				if ev.Immediate {
					trigger = "submit"
				}
				m.SearchesIssued.WithLabelValues(trigger).Inc()
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics: listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
