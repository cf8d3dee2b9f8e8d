// vi: sw=4 ts=4:

/*

	Mnemonic:	metrics
	Abstract:	Prometheus instrumentation for the kernel (spec §6's
				observability surface). Grounded on the ghjramos-aistore
				pack repo's use of github.com/prometheus/client_golang for
				its own storage-node counters/gauges -- the same registry
				and collector shapes, applied to the FES depth, sim-time
				progress, and event throughput instead of object/byte
				counts.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels

	Mods:		30 Jul 2026 : New.
*/

package managers

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/att/nsim/gizmos"
)

/*
	Kernel_metrics is a small Prometheus collector bundle a Kernel reports
	through. Registered lazily so a kernel used purely as a library (no
	metrics server) never pays for it.
*/
type Kernel_metrics struct {
	eventsProcessed prometheus.Counter
	fesDepth        prometheus.Gauge
	simTime         prometheus.Gauge
	terminations    *prometheus.CounterVec
	msgsCreated     prometheus.Counter
	msgsLive        prometheus.Gauge
	lastMsgsCreated float64
}

func Mk_kernel_metrics(reg prometheus.Registerer) *Kernel_metrics {
	m := &Kernel_metrics{
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nsim",
			Name:      "events_processed_total",
			Help:      "Total events popped from the future event set and delivered.",
		}),
		fesDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nsim",
			Name:      "fes_depth",
			Help:      "Number of events currently pending in the future event set.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nsim",
			Name:      "sim_time_seconds",
			Help:      "Current simulation time.",
		}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nsim",
			Name:      "run_terminations_total",
			Help:      "Run terminations, labeled by reason.",
		}, []string{"reason"}),
		msgsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nsim",
			Name:      "messages_created_total",
			Help:      "Total messages ever constructed via gizmos.Mk_message/Dup.",
		}),
		msgsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nsim",
			Name:      "messages_live",
			Help:      "Messages constructed but not yet destroyed.",
		}),
	}
	reg.MustRegister(m.eventsProcessed, m.fesDepth, m.simTime, m.terminations, m.msgsCreated, m.msgsLive)
	return m
}

// Observe samples the kernel's current counters; call after each
// delivered event or on whatever cadence the caller prefers.
func (m *Kernel_metrics) Observe(k *Kernel) {
	m.simTime.Set(k.SimTime())
	m.fesDepth.Set(float64(k.fes.Len()))

	total, live := gizmos.Msg_stats()
	m.msgsCreated.Add(float64(total) - m.lastMsgsCreated)
	m.lastMsgsCreated = float64(total)
	m.msgsLive.Set(float64(live))
}

func (m *Kernel_metrics) Record_event() { m.eventsProcessed.Inc() }

func (m *Kernel_metrics) Record_termination(reason Termination_reason) {
	m.terminations.WithLabelValues(reason.String()).Inc()
}
