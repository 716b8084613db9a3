package backend

import (
	"context"
	"testing"
	"time"

	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/status"
)

func TestBroadcaster_Subscribe_ReceivesAll(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.SubscribeFunc(nil)
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeStatusBattery}
	upstream <- events.Event{Type: events.TypeStatusLevels}

	for _, want := range []string{events.TypeStatusBattery, events.TypeStatusLevels} {
		select {
		case got := <-ch:
			if got.Type != want {
				t.Errorf("got %s, want %s", got.Type, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timed out waiting for event %s", want)
		}
	}
}

func TestBroadcaster_SubscribeFunc_FiltersEvents(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.SubscribeFunc(events.NewFilter(nil, []string{events.TypeStatusClock}))
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeStatusClock}
	upstream <- events.Event{Type: events.TypeStatusToggles}

	select {
	case got := <-ch:
		if got.Type != events.TypeStatusToggles {
			t.Errorf("got %s, want %s", got.Type, events.TypeStatusToggles)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for status.toggles event")
	}

	select {
	case got := <-ch:
		t.Errorf("unexpected event %s delivered through filter", got.Type)
	case <-time.After(30 * time.Millisecond):
		// expected: nothing received
	}
}

func TestBroadcaster_MultipleSubscribersIndependentFilters(t *testing.T) {
	upstream := make(chan events.Event, 8)
	b := NewBroadcaster(context.Background(), upstream)

	allCh := b.SubscribeFunc(nil)
	defer b.Unsubscribe(allCh)

	batteryOnly := b.SubscribeFunc(events.NewFilter(events.BackendTypes["battery"], nil))
	defer b.Unsubscribe(batteryOnly)

	upstream <- events.Event{Type: events.TypeStatusBattery}
	upstream <- events.Event{Type: events.TypeStatusLevels}

	for _, want := range []string{events.TypeStatusBattery, events.TypeStatusLevels} {
		select {
		case got := <-allCh:
			if got.Type != want {
				t.Errorf("allCh: got %s, want %s", got.Type, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("allCh: timed out waiting for %s", want)
		}
	}

	select {
	case got := <-batteryOnly:
		if got.Type != events.TypeStatusBattery {
			t.Errorf("batteryOnly: got %s, want status.battery", got.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("batteryOnly: timed out waiting for status.battery")
	}

	select {
	case got := <-batteryOnly:
		t.Errorf("batteryOnly: unexpected event %s", got.Type)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(context.Background(), make(chan events.Event))

	ch := b.SubscribeFunc(nil)
	if n := b.Subscribers(); n != 1 {
		t.Fatalf("Subscribers() = %d, want 1", n)
	}
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
	// second call must not panic on a closed channel
	b.Unsubscribe(ch)
	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
}

func TestBroadcaster_FullClientDoesNotBlock(t *testing.T) {
	upstream := make(chan events.Event)
	b := NewBroadcaster(context.Background(), upstream)

	slow := b.SubscribeFunc(nil)
	defer b.Unsubscribe(slow)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 40; i++ {
			upstream <- events.Event{Type: events.TypeStatusClock}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcaster blocked on a full subscriber")
	}
	if n := len(slow); n != 32 {
		t.Errorf("slow subscriber holds %d events, want 32", n)
	}
}

func TestBroadcaster_PollerEventsFlowThrough(t *testing.T) {
	p := status.New(nil, nil)
	b := NewBroadcaster(context.Background(), p.Events())

	ch := b.SubscribeFunc(nil)
	defer b.Unsubscribe(ch)

	p.SetRotationLock(true)

	select {
	case got := <-ch:
		if got.Type != events.TypeStatusToggles {
			t.Fatalf("got %s, want %s", got.Type, events.TypeStatusToggles)
		}
		toggles, ok := got.Data.(status.Toggles)
		if !ok {
			t.Fatalf("data is %T, want status.Toggles", got.Data)
		}
		if !toggles.RotationLock {
			t.Error("RotationLock should be true")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for status.toggles event")
	}
}

func TestBroadcaster_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	upstream := make(chan events.Event, 1)
	b := NewBroadcaster(ctx, upstream)
	ch := b.SubscribeFunc(nil)
	defer b.Unsubscribe(ch)

	cancel()
	time.Sleep(10 * time.Millisecond)
	upstream <- events.Event{Type: events.TypeStatusClock}

	select {
	case got := <-ch:
		t.Errorf("event %s delivered after cancel", got.Type)
	case <-time.After(30 * time.Millisecond):
	}
}
