package ripple

import (
	"testing"
)

func TestModelBasic(t *testing.T) {
	m := NewModel(map[string]any{"name": "Ted"})

	if v, ok := m.Get("name"); !ok || v != "Ted" {
		t.Errorf("expected Ted, got %v ok=%v", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("missing key should not be defined")
	}

	m.Set("age", 30)
	if v, _ := m.Get("age"); v != 30 {
		t.Errorf("expected 30, got %v", v)
	}
	if !m.Has("age") || m.Has("missing") {
		t.Error("Has should track defined keys")
	}
}

func TestModelNotifyOrder(t *testing.T) {
	m := NewModel(nil)

	var order []int
	m.Watch("k", func(any, any) { order = append(order, 1) })
	m.Watch("k", func(any, any) { order = append(order, 2) })
	m.Watch("k", func(any, any) { order = append(order, 3) })

	m.Set("k", "v")

	if len(order) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(order))
	}
	for i, got := range order {
		if got != i+1 {
			t.Errorf("notification order[%d] = %d, want %d", i, got, i+1)
		}
	}
}

func TestModelNotifiesOnlyOnChange(t *testing.T) {
	m := NewModel(map[string]any{"k": "a"})

	count := 0
	m.Watch("k", func(any, any) { count++ })

	m.Set("k", "a") // unchanged
	if count != 0 {
		t.Errorf("equal value should not notify, got %d", count)
	}

	m.Set("k", "b")
	m.Set("k", "b")
	if count != 1 {
		t.Errorf("expected 1 notification, got %d", count)
	}

	// First definition of a key always notifies
	m.Watch("fresh", func(any, any) { count++ })
	m.Set("fresh", nil)
	if count != 2 {
		t.Errorf("first set of a key must notify even for nil, got %d", count)
	}
}

func TestModelWatcherArgs(t *testing.T) {
	m := NewModel(map[string]any{"k": "old"})

	var gotNew, gotOld any
	m.Watch("k", func(n, o any) { gotNew, gotOld = n, o })
	m.Set("k", "new")

	if gotNew != "new" || gotOld != "old" {
		t.Errorf("watcher args = (%v, %v), want (new, old)", gotNew, gotOld)
	}
}

func TestModelReentrantSet(t *testing.T) {
	m := NewModel(nil)

	var events []string
	m.Watch("a", func(n, _ any) {
		events = append(events, "a="+n.(string))
		if n == "1" {
			// Re-entrant sets are queued behind the current pass, in the
			// order issued, each producing its own pass.
			m.Set("b", "x")
			m.Set("a", "2")
		}
	})
	m.Watch("b", func(n, _ any) {
		events = append(events, "b="+n.(string))
	})

	m.Set("a", "1")

	want := []string{"a=1", "b=x", "a=2"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}

	if v, _ := m.Get("a"); v != "2" {
		t.Errorf("store should hold the re-entrant write, got %v", v)
	}
}

func TestModelUnwatch(t *testing.T) {
	m := NewModel(nil)

	count := 0
	fn := func(any, any) { count++ }
	m.Watch("k", fn)
	m.Unwatch("k", fn)
	m.Set("k", "v")

	if count != 0 {
		t.Errorf("unwatched callback should not fire, got %d", count)
	}

	// Unwatching an unknown callback is a no-op
	m.Unwatch("k", func(any, any) {})
	m.Unwatch("missing", fn)
}

func TestModelUnwatchID(t *testing.T) {
	m := NewModel(nil)

	var fired []int
	id1 := m.Watch("k", func(any, any) { fired = append(fired, 1) })
	m.Watch("k", func(any, any) { fired = append(fired, 2) })

	m.UnwatchID("k", id1)
	m.Set("k", "v")

	if len(fired) != 1 || fired[0] != 2 {
		t.Errorf("only the second watcher should fire, got %v", fired)
	}
	if m.WatcherCount("k") != 1 {
		t.Errorf("expected 1 remaining watcher, got %d", m.WatcherCount("k"))
	}
}

func TestModelWatcherAddedDuringNotify(t *testing.T) {
	m := NewModel(nil)

	count := 0
	m.Watch("k", func(any, any) {
		m.Watch("k", func(any, any) { count++ })
	})

	m.Set("k", "1")
	if count != 0 {
		t.Error("a watcher added during a pass must not fire in that pass")
	}
	m.Set("k", "2")
	if count != 1 {
		t.Errorf("the added watcher should fire on the next set, got %d", count)
	}
}

func TestModelDestroy(t *testing.T) {
	m := NewModel(map[string]any{"k": "v"})

	count := 0
	m.Watch("k", func(any, any) { count++ })
	m.Destroy()

	if count != 0 {
		t.Error("Destroy must not notify watchers")
	}
	if _, ok := m.Get("k"); ok {
		t.Error("destroyed model holds no props")
	}

	// Terminal: further sets are no-ops
	m.Set("k", "w")
	if _, ok := m.Get("k"); ok {
		t.Error("Set after Destroy must be a no-op")
	}
	if m.Watch("k", func(any, any) {}) != 0 {
		t.Error("Watch after Destroy must not register")
	}
}

func TestValueEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"equal ints", 1, 1, true},
		{"int vs float", 1, 1.0, false},
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"equal bools", true, true, true},
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"different slices", []int{1}, []int{2}, false},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valueEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("valueEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
