package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/signscribe/internal/sign"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	b, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sent := Event{
		Type:       TypeCommit,
		SessionID:  "s-1",
		Gesture:    sign.ThankYou,
		Text:       sign.ThankYou.Text(),
		Seq:        1,
		Transcript: "Thank You",
		At:         at,
	}
	require.NoError(t, bus.Publish(ctx, sent))

	for _, ch := range []<-chan Event{a, b} {
		got := recv(t, ch)
		assert.Equal(t, sent.Type, got.Type)
		assert.Equal(t, sign.ThankYou, got.Gesture)
		assert.Equal(t, "Thank You", got.Text)
		assert.Equal(t, 1, got.Seq)
		assert.True(t, at.Equal(got.At))
	}
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	assert.NoError(t, bus.Publish(context.Background(), Event{Type: TypeStart}))
}

func TestBus_SubscriptionEndsWithContext(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel was not closed")
	}
}

func TestBus_CloseEndsSubscriptions(t *testing.T) {
	bus := NewBus(nil)

	ch, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel was not closed")
	}
}

func TestEvent_GestureEncodesAsCode(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx := context.Background()
	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Event{Type: TypeReset}))
	got := recv(t, ch)
	assert.Equal(t, TypeReset, got.Type)
	assert.Equal(t, sign.None, got.Gesture)
}

func TestBus_SlowSubscriberSeesPublishOrder(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	const n = 200
	got := make(chan []int, 1)
	go func() {
		seqs := make([]int, 0, n)
		for e := range ch {
			if len(seqs) < 5 {
				time.Sleep(20 * time.Millisecond)
			}
			seqs = append(seqs, e.Seq)
			if len(seqs) == n {
				break
			}
		}
		got <- seqs
	}()

	for seq := 1; seq <= n; seq++ {
		require.NoError(t, bus.Publish(ctx, Event{Type: TypeCommit, Gesture: sign.Yes, Seq: seq}))
	}

	select {
	case seqs := <-got:
		require.Len(t, seqs, n)
		for i, seq := range seqs {
			assert.Equal(t, i+1, seq, "delivery %d out of order", i)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}
}

func TestBus_PublishDoesNotWaitForConsumer(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for seq := 1; seq <= 500; seq++ {
			bus.Publish(ctx, Event{Type: TypeCommit, Seq: seq})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a subscriber that is not reading")
	}

	assert.Equal(t, 1, recv(t, ch).Seq)
	assert.Equal(t, 2, recv(t, ch).Seq)
}
