package display

import (
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
)

func newFakeClock() *fakeclock.FakeClock {
	return fakeclock.NewFakeClock(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
}

func expectNone(t *testing.T, ch <-chan int) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected call %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func expectCall(t *testing.T, ch <-chan int, want int) {
	t.Helper()
	select {
	case v := <-ch:
		if v != want {
			t.Fatalf("expected call %d, got %d", want, v)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected call %d, got none", want)
	}
}

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	clk := newFakeClock()
	d := NewDebouncer(clk, 300*time.Millisecond)
	calls := make(chan int, 10)

	for i := 1; i <= 3; i++ {
		i := i
		d.Trigger(func() { calls <- i })
		clk.Increment(100 * time.Millisecond)
	}
	expectNone(t, calls)

	clk.Increment(200 * time.Millisecond)
	expectCall(t, calls, 3)
	expectNone(t, calls)

	if d.Pending() {
		t.Fatalf("expected nothing pending after firing")
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	clk := newFakeClock()
	d := NewDebouncer(clk, 0)
	calls := make(chan int, 10)

	d.Trigger(func() { calls <- 1 })
	clk.Increment(DefaultWindow)
	expectCall(t, calls, 1)

	d.Trigger(func() { calls <- 2 })
	if !d.Pending() {
		t.Fatalf("expected a pending call")
	}
	clk.Increment(DefaultWindow)
	expectCall(t, calls, 2)
}

func TestDebouncerCancelAndStop(t *testing.T) {
	clk := newFakeClock()
	d := NewDebouncer(clk, 300*time.Millisecond)
	calls := make(chan int, 10)

	d.Trigger(func() { calls <- 1 })
	d.Cancel()
	clk.Increment(time.Second)
	expectNone(t, calls)

	d.Trigger(func() { calls <- 2 })
	d.Stop()
	d.Trigger(func() { calls <- 3 })
	clk.Increment(time.Second)
	expectNone(t, calls)

	if d.Pending() {
		t.Fatalf("expected nothing pending after Stop")
	}
}
