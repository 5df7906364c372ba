package metrics

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or propagate errors.
type Sink interface {
	// Job log metrics
	JobsListed(cacheHit bool)
	RescheduleCompleted(kind string, err error)
	CommentPosted()
	CacheError(op string)

	// Calendar metrics
	ProjectionCompleted(events, skipped int)
	ViewRedirected(from, to string)
}

// Reschedule kinds for RescheduleCompleted.
const (
	KindSlot       = "slot"
	KindUnschedule = "unschedule"
	KindTomorrow   = "tomorrow"
)
