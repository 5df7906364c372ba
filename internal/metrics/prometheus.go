package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	jobListsTotal     *prometheus.CounterVec
	reschedulesTotal  *prometheus.CounterVec
	commentsTotal     prometheus.Counter
	cacheErrorsTotal  *prometheus.CounterVec
	projectedEvents   prometheus.Histogram
	skippedJobsTotal  prometheus.Counter
	viewRedirectTotal *prometheus.CounterVec
}

// NewPrometheusSink creates a new Prometheus metrics sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initJobLogMetrics(reg)
	s.initCalendarMetrics(reg)
	return s
}

func (s *PrometheusSink) initJobLogMetrics(reg prometheus.Registerer) {
	s.jobListsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chaiiwala_joblog_lists_total",
		Help: "Total number of job list queries by cache result.",
	}, []string{"cache"})
	s.reschedulesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chaiiwala_joblog_reschedules_total",
		Help: "Total number of reschedule operations by kind and outcome.",
	}, []string{"kind", "outcome"})
	s.commentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chaiiwala_joblog_comments_total",
		Help: "Total number of comments posted on jobs.",
	})
	s.cacheErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chaiiwala_joblog_cache_errors_total",
		Help: "Total number of cache operations that failed and were bypassed.",
	}, []string{"op"})

	s.register(reg, s.jobListsTotal, "chaiiwala_joblog_lists_total")
	s.register(reg, s.reschedulesTotal, "chaiiwala_joblog_reschedules_total")
	s.register(reg, s.commentsTotal, "chaiiwala_joblog_comments_total")
	s.register(reg, s.cacheErrorsTotal, "chaiiwala_joblog_cache_errors_total")
}

func (s *PrometheusSink) initCalendarMetrics(reg prometheus.Registerer) {
	s.projectedEvents = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chaiiwala_calendar_projected_events",
		Help:    "Number of calendar events produced per projection.",
		Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
	})
	s.skippedJobsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chaiiwala_calendar_skipped_jobs_total",
		Help: "Total number of jobs left off the calendar because of malformed dates or times.",
	})
	s.viewRedirectTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chaiiwala_calendar_view_redirects_total",
		Help: "Total number of view selections redirected by policy.",
	}, []string{"from", "to"})

	s.register(reg, s.projectedEvents, "chaiiwala_calendar_projected_events")
	s.register(reg, s.skippedJobsTotal, "chaiiwala_calendar_skipped_jobs_total")
	s.register(reg, s.viewRedirectTotal, "chaiiwala_calendar_view_redirects_total")
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) JobsListed(cacheHit bool) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	s.jobListsTotal.WithLabelValues(label).Inc()
}

func (s *PrometheusSink) RescheduleCompleted(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.reschedulesTotal.WithLabelValues(kind, outcome).Inc()
}

func (s *PrometheusSink) CommentPosted() {
	s.commentsTotal.Inc()
}

func (s *PrometheusSink) CacheError(op string) {
	s.cacheErrorsTotal.WithLabelValues(op).Inc()
}

func (s *PrometheusSink) ProjectionCompleted(events, skipped int) {
	s.projectedEvents.Observe(float64(events))
	s.skippedJobsTotal.Add(float64(skipped))
}

func (s *PrometheusSink) ViewRedirected(from, to string) {
	s.viewRedirectTotal.WithLabelValues(from, to).Inc()
}
