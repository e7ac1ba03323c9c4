package events

type ProducerOptions func(e *EventProducer)

// WithOutputTopic overrides the topic ownership events are published to.
func WithOutputTopic(topic string) ProducerOptions {
	return func(e *EventProducer) {
		e.topic = topic
	}
}

// WithSource overrides the CloudEvents source attribute, letting several
// deployments of the engine share one topic.
func WithSource(source string) ProducerOptions {
	return func(e *EventProducer) {
		e.source = source
	}
}
