// Package store defines the key/value ledger contract the settlement engine
// persists through. Every aggregate is loaded in full under a single key,
// mutated in memory, and written back whole.
package store

import "context"

// KV is the durable key/value store the engine depends on. Implementations
// must serialize concurrent writes to the same key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// BankKey returns the composite key under which a bank record is stored.
func BankKey(code string) string {
	return "bank:" + code
}

// TransactionKey returns the composite key under which a transaction record
// is stored.
func TransactionKey(id string) string {
	return "transaction:" + id
}
