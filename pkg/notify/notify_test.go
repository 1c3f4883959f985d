package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestQueue(t *testing.T) {
	t.Run("Should dismiss errors after five seconds and info after three", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
		q := NewQueue(WithClock(clock.Now))
		q.Notify(LevelError, "Không thể tải danh sách đơn hàng")
		q.Notify(LevelSuccess, "Đã cập nhật 3 đơn hàng")
		require.Len(t, q.Visible(), 2)

		clock.Advance(3 * time.Second)
		visible := q.Visible()
		require.Len(t, visible, 1)
		assert.Equal(t, LevelError, visible[0].Level)

		clock.Advance(2 * time.Second)
		assert.Empty(t, q.Visible())
		assert.Len(t, q.History(), 2)
	})

	t.Run("Should report the earliest pending expiry", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
		q := NewQueue(WithClock(clock.Now), WithTimeouts(10*time.Second, time.Second))
		_, ok := q.NextExpiry()
		assert.False(t, ok)

		q.Notify(LevelWarning, "slow network")
		q.Notify(LevelInfo, "loaded")
		next, ok := q.NextExpiry()
		require.True(t, ok)
		assert.Equal(t, clock.Now().Add(time.Second), next)
	})

	t.Run("Should assign increasing sequence numbers and call the push hook", func(t *testing.T) {
		var pushed []Notification
		q := NewQueue(WithOnPush(func(n Notification) { pushed = append(pushed, n) }))
		first := q.NotifyFor(LevelInfo, "a", time.Minute)
		second := q.NotifyFor(LevelInfo, "b", time.Minute)
		assert.Less(t, first.Seq, second.Seq)
		assert.Len(t, pushed, 2)
	})
}

func TestMulti(t *testing.T) {
	t.Run("Should fan out and skip nil notifiers", func(t *testing.T) {
		a, b := NewQueue(), NewQueue()
		Multi{a, nil, b, Discard{}}.Notify(LevelInfo, "hello")
		assert.Len(t, a.History(), 1)
		assert.Len(t, b.History(), 1)
	})
}
