package sequencev1

import "context"

// CounterRepository persists the last sequence handed out per pair.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=sequencev1_mock
type CounterRepository interface {
	// Save stores sequence unless a larger value is already stored.
	Save(ctx context.Context, pair string, sequence int64) error
	LoadAll(ctx context.Context) (map[string]int64, error)
}
