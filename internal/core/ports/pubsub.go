package ports

// Topic of an event published by the pool.
type Topic string

const (
	TopicSwapCommitted  Topic = "SWAP_COMMITTED"
	TopicSwapAborted    Topic = "SWAP_ABORTED"
	TopicLiquidityAdded Topic = "LIQUIDITY_ADDED"
	// AnyTopic is used by subscribers interested in every event.
	AnyTopic Topic = "*"
)

// PubSub defines the methods of a service that notifies events to
// subscribers.
type PubSub interface {
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic Topic, message string) error
	// Close disconnects all subscribers.
	Close()
}
