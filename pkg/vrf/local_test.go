package vrf

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingFulfiller struct {
	mutex     sync.Mutex
	requestID uint64
	words     []uint64
	calls     int
}

func (f *recordingFulfiller) FulfillRandomWords(ctx context.Context, requestID uint64, words []uint64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.requestID = requestID
	f.words = words
	f.calls++
	return nil
}

func Test_LocalCoordinator_RequestRandomWords(t *testing.T) {
	coordinator, err := NewLocalCoordinator(context.Background(), time.Millisecond)
	require.NoError(t, err)

	// A request without a registered consumer is refused.
	_, err = coordinator.RequestRandomWords(context.Background(), Request{NumWords: 1})
	require.Error(t, err)

	fulfiller := &recordingFulfiller{}
	coordinator.Register(fulfiller)

	_, err = coordinator.RequestRandomWords(context.Background(), Request{})
	require.Error(t, err)

	requestID, err := coordinator.RequestRandomWords(context.Background(), Request{
		NumWords:             2,
		RequestConfirmations: 1,
	})
	require.NoError(t, err)
	require.NotZero(t, requestID)

	require.Eventually(t, func() bool {
		fulfiller.mutex.Lock()
		defer fulfiller.mutex.Unlock()
		return fulfiller.calls == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, requestID, fulfiller.requestID)
	require.Len(t, fulfiller.words, 2)

	// Request ids never repeat.
	otherID, err := coordinator.RequestRandomWords(context.Background(), Request{
		NumWords:             1,
		RequestConfirmations: 1,
	})
	require.NoError(t, err)
	require.NotEqual(t, requestID, otherID)
}
