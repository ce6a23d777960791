package event

import "testing"

type ping struct{ n int }
type pong struct{ n int }

func TestEmitIsDeferredUntilDrain(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.n) })

	Emit(b, ping{1})
	Emit(b, ping{2})
	if len(got) != 0 {
		t.Fatal("handlers must not run on Emit")
	}
	if b.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", b.Pending())
	}

	if n := b.Drain(); n != 2 {
		t.Fatalf("Drain delivered %d, want 2", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v, want [1 2]", got)
	}
	if b.Pending() != 0 {
		t.Fatal("queue should be empty after Drain")
	}
}

func TestDrainKeepsEmissionOrderAcrossTypes(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(ping) { order = append(order, "ping") })
	Subscribe(b, func(pong) { order = append(order, "pong") })

	Emit(b, pong{})
	Emit(b, ping{})
	Emit(b, pong{})
	b.Drain()

	want := []string{"pong", "ping", "pong"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDrainDeliversFollowUps(t *testing.T) {
	b := NewBus()
	var pongs int
	Subscribe(b, func(p ping) { Emit(b, pong{p.n}) })
	Subscribe(b, func(pong) { pongs++ })

	Emit(b, ping{1})
	if n := b.Drain(); n != 2 {
		t.Fatalf("Drain delivered %d, want 2", n)
	}
	if pongs != 1 {
		t.Fatalf("pongs = %d, want 1", pongs)
	}
}

func TestDrainIsBounded(t *testing.T) {
	b := NewBus()
	Subscribe(b, func(p ping) { Emit(b, ping{p.n + 1}) })
	Emit(b, ping{0})
	if n := b.Drain(); n != maxDrainRounds {
		t.Fatalf("Drain delivered %d, want %d", n, maxDrainRounds)
	}
	b.Reset()
	if b.Pending() != 0 {
		t.Fatal("Reset should drop queued events")
	}
}
