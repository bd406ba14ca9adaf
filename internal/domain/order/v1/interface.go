package orderv1

import "context"

// LiveOrderRepository stores LiveOrders keyed by (pair, orderHash).
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderv1_mock
type LiveOrderRepository interface {
	// Get returns nil, nil when the order does not exist.
	Get(ctx context.Context, pair, orderHash string) (*LiveOrder, error)
	ListByPair(ctx context.Context, pair string) ([]LiveOrder, error)
	// Insert is a no-op when the order was already terminated or a row with
	// an equal or newer currentSequence exists.
	Insert(ctx context.Context, order LiveOrder) error
	// Update only applies when order.CurrentSequence is newer than the row.
	Update(ctx context.Context, order LiveOrder) error
	Delete(ctx context.Context, pair, orderHash string) error
}

// RawOrderRepository stores signed payloads keyed by orderHash.
type RawOrderRepository interface {
	Get(ctx context.Context, orderHash string) (*RawOrder, error)
	// Insert keeps the first stored payload unless it is the empty
	// placeholder left by a terminate that was applied first.
	Insert(ctx context.Context, order RawOrder) error
	// Terminate sets the tombstone, creating a placeholder row when the add
	// has not been applied yet. The tombstone never moves backwards.
	Terminate(ctx context.Context, pair, orderHash string, sequence int64) error
}

// UserOrderRepository appends audit rows.
type UserOrderRepository interface {
	Insert(ctx context.Context, order UserOrder) error
	ListByAccount(ctx context.Context, account, yearMonth string) ([]UserOrder, error)
}

// UserOrderPublisher emits audit rows to downstream consumers.
type UserOrderPublisher interface {
	PublishUserOrder(ctx context.Context, order UserOrder) error
}

// MatchPublisher hands match instructions to the settlement collaborator.
type MatchPublisher interface {
	PublishMatch(ctx context.Context, match MatchRequest) error
}

// Sequencer hands out the next sequence number of a pair.
type Sequencer interface {
	NextSequence(ctx context.Context, pair string) (int64, error)
}

// Persistence is the durable order queue as seen by the order book server
// and the relay.
type Persistence interface {
	PersistOrder(ctx context.Context, req PersistRequest) (*UserOrder, error)
	GetLiveOrderInPersistence(ctx context.Context, pair, orderHash string) (*LiveOrder, error)
	GetAllLiveOrdersInPersistence(ctx context.Context, pair string) (map[string]LiveOrder, error)
	AddMatchingOrders(ctx context.Context, pair string, matches []MatchRequest) error
}
