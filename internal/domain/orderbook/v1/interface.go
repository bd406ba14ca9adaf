package orderbookv1

import "context"

// Publisher distributes snapshots and deltas of a pair's book.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Publisher interface {
	PublishSnapshot(ctx context.Context, snapshot *Snapshot) error
	// PublishUpdate distributes update; snapshot is the book after it was
	// applied and replaces the stored one.
	PublishUpdate(ctx context.Context, update *SnapshotUpdate, snapshot *Snapshot) error
}

// Custodian reports whether trading of a pair is currently allowed.
type Custodian interface {
	Tradeable(ctx context.Context, pair string) (bool, error)
}
