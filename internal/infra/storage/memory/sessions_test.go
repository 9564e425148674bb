package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/app/session"
	"stayfinder/internal/domain/listings"
	"stayfinder/internal/domain/shared/money"
	"stayfinder/internal/domain/stay"
)

func storedSession() *session.Session {
	return &session.Session{
		ID:       "sess-1",
		Listing:  listings.Listing{ID: "listing-1", NightlyRate: money.USD(10000)},
		Guests:   1,
		Selector: stay.NewSelector(stay.Month{Year: 2025, Month: time.March}),
		Status:   session.StatusOpen,
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	require.NoError(t, store.Save(ctx, storedSession()))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	got.Selector.SelectDay(5)
	got.Guests = 4

	again, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, stay.PhaseEmpty, again.Selector.Selection().Phase())
	assert.Equal(t, 1, again.Guests)
}

func TestSaveDetachesFromCaller(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	sess := storedSession()
	require.NoError(t, store.Save(ctx, sess))

	sess.Selector.SelectDay(5)
	sess.Status = session.StatusFailed

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, stay.PhaseEmpty, got.Selector.Selection().Phase())
	assert.Equal(t, session.StatusOpen, got.Status)
}

// Readers and writers on the same session must never share state; the race
// detector verifies the store hands out nothing live.
func TestConcurrentReadersAndWriters(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	require.NoError(t, store.Save(ctx, storedSession()))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for day := 1; day <= 50; day++ {
				sess, err := store.Get(ctx, "sess-1")
				if err != nil {
					continue
				}
				sess.Selector.SelectDay(day%28 + 1)
				_ = store.Save(ctx, sess)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sess, err := store.Get(ctx, "sess-1")
				if err != nil {
					continue
				}
				_ = sess.Selector.Selection().Summary()
				_ = sess.Quote()
			}
		}()
	}
	wg.Wait()
}
