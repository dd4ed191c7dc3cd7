package chain

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NonceSource reports the next nonce the node expects from an account
type NonceSource interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

type nonceKey struct {
	chainID uint64
	sender  common.Address
}

// NonceTracker hands out sequential nonces per (chain, sender). The first
// request for a key asks the node; later ones count up locally so concurrent
// writes from one sender never reuse a nonce.
type NonceTracker struct {
	mu   sync.Mutex
	next map[nonceKey]uint64
}

func NewNonceTracker() *NonceTracker {
	return &NonceTracker{next: make(map[nonceKey]uint64)}
}

func (t *NonceTracker) Next(ctx context.Context, chainID uint64, sender common.Address, src NonceSource) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := nonceKey{chainID: chainID, sender: sender}
	if n, ok := t.next[key]; ok {
		t.next[key] = n + 1
		return n, nil
	}
	n, err := src.PendingNonceAt(ctx, sender)
	if err != nil {
		return 0, err
	}
	t.next[key] = n + 1
	return n, nil
}

// Reset forgets the local counter so the next request re-reads the node.
// Called after a transaction failed before reaching the mempool.
func (t *NonceTracker) Reset(chainID uint64, sender common.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.next, nonceKey{chainID: chainID, sender: sender})
}
