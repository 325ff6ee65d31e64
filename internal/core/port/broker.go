package port

import "context"

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// BrokerPort publishes an already encoded event to the exchange of its entity,
// routed by event name (order.created goes to exchange.order).
type BrokerPort interface {
	PublishRaw(ctx context.Context, eventName, entityName string, data []byte) error
	Close() error
}
