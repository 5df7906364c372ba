package metrics

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) JobsListed(cacheHit bool)                   {}
func (n *NoopSink) RescheduleCompleted(kind string, err error) {}
func (n *NoopSink) CommentPosted()                             {}
func (n *NoopSink) CacheError(op string)                       {}
func (n *NoopSink) ProjectionCompleted(events, skipped int)    {}
func (n *NoopSink) ViewRedirected(from, to string)             {}
