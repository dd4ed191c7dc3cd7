package chain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedNonce struct {
	calls int
	nonce uint64
	err   error
}

func (f *fixedNonce) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.calls++
	return f.nonce, f.err
}

func TestNonceTracker_CountsLocally(t *testing.T) {
	src := &fixedNonce{nonce: 7}
	tracker := NewNonceTracker()
	sender := common.HexToAddress("0x01")

	for want := uint64(7); want < 10; want++ {
		n, err := tracker.Next(context.Background(), 97, sender, src)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.Equal(t, 1, src.calls)

	// other chains keep their own counter
	n, err := tracker.Next(context.Background(), 56, sender, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)
	assert.Equal(t, 2, src.calls)
}

func TestNonceTracker_Reset(t *testing.T) {
	src := &fixedNonce{nonce: 3}
	tracker := NewNonceTracker()
	sender := common.HexToAddress("0x02")

	_, _ = tracker.Next(context.Background(), 4, sender, src)
	tracker.Reset(4, sender)
	n, err := tracker.Next(context.Background(), 4, sender, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, 2, src.calls)
}

func TestNonceTracker_SourceError(t *testing.T) {
	tracker := NewNonceTracker()
	_, err := tracker.Next(context.Background(), 4, common.Address{}, &fixedNonce{err: errors.New("rpc down")})
	assert.EqualError(t, err, "rpc down")
}

func TestNonceTracker_Concurrent(t *testing.T) {
	src := &fixedNonce{}
	tracker := NewNonceTracker()
	sender := common.HexToAddress("0x03")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint64]bool)
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := tracker.Next(context.Background(), 5, sender, src)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}
