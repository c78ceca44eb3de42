package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "mctsbot"
	searchSubsystem  = "search"
)

// PrometheusCollector exports search statistics per agent. Every collector
// handed out by ForAgent shares the same metric vectors.
type PrometheusCollector struct {
	searches     *prometheus.CounterVec
	iterations   *prometheus.CounterVec
	expansions   *prometheus.CounterVec
	playoutMoves *prometheus.HistogramVec
	duration     *prometheus.HistogramVec
}

// NewPrometheusCollector registers the search metrics on reg. A nil reg creates
// unregistered metrics.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "searches_total",
			Help:      "Completed searches by agent",
		}, []string{"agent"}),
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "iterations_total",
			Help:      "Completed simulations by agent",
		}, []string{"agent"}),
		expansions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "expansions_total",
			Help:      "Tree nodes added by agent",
		}, []string{"agent"}),
		playoutMoves: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "playout_moves",
			Help:      "Moves played per rollout",
			Buckets:   []float64{0, 5, 10, 20, 30, 40, 60, 81},
		}, []string{"agent"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "duration_seconds",
			Help:      "Wall time per search",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"agent"}),
	}
}

// ForAgent returns a Collector that records into the agent's series and also
// keeps the per-search counts returned by Complete.
func (p *PrometheusCollector) ForAgent(agent string) Collector {
	return &agentCollector{
		inner:        NewCollector(),
		searches:     p.searches.WithLabelValues(agent),
		iterations:   p.iterations.WithLabelValues(agent),
		expansions:   p.expansions.WithLabelValues(agent),
		playoutMoves: p.playoutMoves.WithLabelValues(agent),
		duration:     p.duration.WithLabelValues(agent),
	}
}

type agentCollector struct {
	inner        Collector
	searches     prometheus.Counter
	iterations   prometheus.Counter
	expansions   prometheus.Counter
	playoutMoves prometheus.Observer
	duration     prometheus.Observer
}

func (c *agentCollector) Start(iterations int, exploration float64) {
	c.inner.Start(iterations, exploration)
}

func (c *agentCollector) AddIteration() {
	c.inner.AddIteration()
	c.iterations.Inc()
}

func (c *agentCollector) AddExpansion() {
	c.inner.AddExpansion()
	c.expansions.Inc()
}

func (c *agentCollector) AddPlayout(moves int) {
	c.inner.AddPlayout(moves)
	c.playoutMoves.Observe(float64(moves))
}

func (c *agentCollector) Complete() SearchMetric {
	metric := c.inner.Complete()
	c.duration.Observe(metric.Duration.Seconds())
	c.searches.Inc()
	return metric
}
