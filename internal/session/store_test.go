package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T, maxHistory int) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(_ *testing.T, maxHistory int) Store {
			return NewMemoryStore(maxHistory)
		},
		"cache": func(_ *testing.T, maxHistory int) Store {
			return NewCacheStore(time.Hour, maxHistory)
		},
		"bolt": func(t *testing.T, maxHistory int) Store {
			s, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"), maxHistory)
			require.NoError(t, err)
			return s
		},
	}
}

func exchange(n int) Exchange {
	return Exchange{
		ID:        fmt.Sprintf("ex-%d", n),
		Customer:  fmt.Sprintf("question %d", n),
		Assistant: fmt.Sprintf("answer %d", n),
		CreatedAt: time.Now().UTC(),
	}
}

func TestStore_GetOrCreate_NewSessionIsEmpty(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, 0)
			defer s.Close()
			ctx := context.Background()

			sess, err := s.GetOrCreate(ctx, "fresh")
			require.NoError(t, err)
			assert.Equal(t, "fresh", sess.ID)
			assert.Empty(t, sess.OrderID)
			assert.Empty(t, sess.History)
			assert.False(t, sess.CreatedAt.IsZero())
		})
	}
}

func TestStore_Get_Missing(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, 0)
			defer s.Close()

			sess, err := s.Get(context.Background(), "nobody")
			require.NoError(t, err)
			assert.Nil(t, sess)
		})
	}
}

func TestStore_SetOrderAndAppend(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, 0)
			defer s.Close()
			ctx := context.Background()

			_, err := s.GetOrCreate(ctx, "abc")
			require.NoError(t, err)

			require.NoError(t, s.SetOrder(ctx, "abc", "ORD123"))
			require.NoError(t, s.Append(ctx, "abc", exchange(1)))
			require.NoError(t, s.Append(ctx, "abc", exchange(2)))

			sess, err := s.Get(ctx, "abc")
			require.NoError(t, err)
			require.NotNil(t, sess)
			assert.Equal(t, "ORD123", sess.OrderID)
			require.Len(t, sess.History, 2)
			assert.Equal(t, "question 1", sess.History[0].Customer)
			assert.Equal(t, "answer 2", sess.History[1].Assistant)

			// last detected order wins
			require.NoError(t, s.SetOrder(ctx, "abc", "ORD999"))
			sess, err = s.GetOrCreate(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, "ORD999", sess.OrderID)
			assert.Len(t, sess.History, 2)
		})
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, 0)
			defer s.Close()
			ctx := context.Background()

			require.NoError(t, s.Append(ctx, "abc", exchange(1)))
			sess, err := s.Get(ctx, "abc")
			require.NoError(t, err)
			sess.History[0].Customer = "mutated"
			sess.OrderID = "ORD1"

			again, err := s.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, "question 1", again.History[0].Customer)
			assert.Empty(t, again.OrderID)
		})
	}
}

func TestStore_HistoryCap(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, 3)
			defer s.Close()
			ctx := context.Background()

			for i := 1; i <= 5; i++ {
				require.NoError(t, s.Append(ctx, "abc", exchange(i)))
			}

			sess, err := s.Get(ctx, "abc")
			require.NoError(t, err)
			require.Len(t, sess.History, 3)
			assert.Equal(t, "ex-3", sess.History[0].ID)
			assert.Equal(t, "ex-5", sess.History[2].ID)
		})
	}
}

func TestStore_Unbounded(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		require.NoError(t, s.Append(ctx, "abc", exchange(i)))
	}
	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, sess.History, 200)
}

func TestStore_ConcurrentSessions(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t, 0)
			defer s.Close()
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						assert.NoError(t, s.Append(ctx, id, exchange(j)))
					}
				}(fmt.Sprintf("session-%d", i))
			}
			wg.Wait()

			for i := 0; i < 8; i++ {
				sess, err := s.Get(ctx, fmt.Sprintf("session-%d", i))
				require.NoError(t, err)
				assert.Len(t, sess.History, 10)
			}
		})
	}
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	s, err := NewBoltStore(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.SetOrder(ctx, "abc", "ORD456"))
	require.NoError(t, s.Append(ctx, "abc", exchange(1)))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(path, 0)
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "ORD456", sess.OrderID)
	assert.Len(t, sess.History, 1)
}

func TestCacheStore_Expires(t *testing.T) {
	s := NewCacheStore(50*time.Millisecond, 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SetOrder(ctx, "abc", "ORD123"))
	time.Sleep(120 * time.Millisecond)

	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, sess)

	sess, err = s.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, sess.OrderID)
}

func TestSession_Recent(t *testing.T) {
	sess := &Session{}
	assert.Nil(t, sess.Recent(3))

	for i := 1; i <= 5; i++ {
		sess.History = append(sess.History, exchange(i))
	}
	recent := sess.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "ex-3", recent[0].ID)
	assert.Equal(t, "ex-5", recent[2].ID)

	sess.History = sess.History[:2]
	assert.Len(t, sess.Recent(3), 2)
}
