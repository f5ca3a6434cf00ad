package ripple

import "testing"

// makeChain creates owner -> child -> grandchild views sharing one scope
// chain, without component templates getting in the way.
func makeChain(t *testing.T, ownerData, childData, grandData map[string]any) (*View, *View, *View) {
	t.Helper()
	f := MustNew(`<div></div>`)

	owner, err := f.Create(ownerData)
	if err != nil {
		t.Fatal(err)
	}
	child, err := f.create(childData, owner)
	if err != nil {
		t.Fatal(err)
	}
	grand, err := f.create(grandData, child)
	if err != nil {
		t.Fatal(err)
	}
	return owner, child, grand
}

func TestScopeGetFallback(t *testing.T) {
	owner, child, grand := makeChain(t,
		map[string]any{"color": "red", "size": "L"},
		map[string]any{"size": "M"},
		nil,
	)

	if got := child.Get("color"); got != "red" {
		t.Errorf("child should fall back to owner, got %v", got)
	}
	if got := child.Get("size"); got != "M" {
		t.Errorf("local value must shadow the scope, got %v", got)
	}
	if got := grand.Get("color"); got != "red" {
		t.Errorf("fallback must be transitive, got %v", got)
	}
	if got := grand.Get("size"); got != "M" {
		t.Errorf("grandchild resolves via nearest ancestor, got %v", got)
	}
	if got := owner.Get("nothing"); got != nil {
		t.Errorf("undefined key with no scope returns nil, got %v", got)
	}
	if _, ok := grand.GetOK("nothing"); ok {
		t.Error("undefined everywhere should report not ok")
	}
}

func TestScopeWatchDelegation(t *testing.T) {
	owner, child, _ := makeChain(t, map[string]any{"k": "a"}, nil, nil)

	var got []string
	child.Watch("k", func(n, _ any) { got = append(got, n.(string)) })

	owner.Set("k", "b")
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("delegated watcher should fire on owner set, got %v", got)
	}
}

func TestScopeWatchDelegationTransitive(t *testing.T) {
	owner, _, grand := makeChain(t, map[string]any{"k": "a"}, nil, nil)

	fired := 0
	grand.Watch("k", func(any, any) { fired++ })

	owner.Set("k", "b")
	if fired != 1 {
		t.Errorf("grandchild watch should reach the defining ancestor, got %d", fired)
	}
}

func TestWatcherMigration(t *testing.T) {
	owner, child, _ := makeChain(t, map[string]any{"k": "a"}, nil, nil)

	var got []string
	child.Watch("k", func(n, _ any) { got = append(got, n.(string)) })

	// The key becomes locally owned: the delegated watcher migrates and
	// fires from the child's model for this very write.
	child.Set("k", "local")
	if len(got) != 1 || got[0] != "local" {
		t.Fatalf("migrated watcher should fire for the migrating set, got %v", got)
	}

	// Exclusive: the ancestor no longer reaches the child's watcher.
	owner.Set("k", "owner-change")
	if len(got) != 1 {
		t.Errorf("owner set after migration must not fire the child watcher, got %v", got)
	}

	// And the local model now does.
	child.Set("k", "local2")
	if len(got) != 2 || got[1] != "local2" {
		t.Errorf("child set after migration should fire, got %v", got)
	}

	// No residue on the ancestor's model.
	if owner.model.WatcherCount("k") != 0 {
		t.Errorf("ancestor should hold no delegated watchers, got %d", owner.model.WatcherCount("k"))
	}
}

func TestScopeWatchersInvariant(t *testing.T) {
	owner, child, _ := makeChain(t, map[string]any{"k": "a"}, nil, nil)

	child.Watch("k", func(any, any) {})
	if _, ok := child.scopeWatchers["k"]; !ok {
		t.Fatal("delegated watch should be recorded")
	}
	if child.model.Has("k") {
		t.Fatal("a scope-delegated key must not be locally defined")
	}

	// Every mutation path that defines the key locally clears the record.
	child.Set("k", 1)
	if _, ok := child.scopeWatchers["k"]; ok {
		t.Error("migration must clear the scopeWatchers entry")
	}
	if !child.model.Has("k") {
		t.Error("the key is locally owned after Set")
	}
	_ = owner
}

func TestScopeUnwatchMirrorsResolution(t *testing.T) {
	owner, child, _ := makeChain(t, map[string]any{"k": "a"}, nil, nil)

	fired := 0
	fn := func(any, any) { fired++ }
	child.Watch("k", fn)
	child.Unwatch("k", fn)

	owner.Set("k", "b")
	if fired != 0 {
		t.Errorf("unwatched delegated callback must not fire, got %d", fired)
	}
	if owner.model.WatcherCount("k") != 0 {
		t.Errorf("unwatch should remove the ancestor registration, got %d", owner.model.WatcherCount("k"))
	}
	if len(child.scopeWatchers) != 0 {
		t.Error("unwatch should prune the scopeWatchers entry")
	}
}

func TestWatchLocalWithNoScope(t *testing.T) {
	f := MustNew(`<div></div>`)
	v, _ := f.Create(nil)

	var got []any
	v.Watch("later", func(n, _ any) { got = append(got, n) })

	// Registered locally even though undefined; fires once set.
	v.Set("later", 9)
	if len(got) != 1 || got[0] != 9 {
		t.Errorf("local watch on undefined key should fire after set, got %v", got)
	}
}

func TestSetAll(t *testing.T) {
	f := MustNew(`<div></div>`)
	v, _ := f.Create(nil)

	if err := v.SetAll(map[string]any{"a": 1, "b": 2}); err != nil {
		t.Fatal(err)
	}
	if v.Get("a") != 1 || v.Get("b") != 2 {
		t.Error("SetAll should apply every key")
	}
}

func TestWatchAll(t *testing.T) {
	f := MustNew(`<div></div>`)
	v, _ := f.Create(map[string]any{"a": 1, "b": 2})

	fired := 0
	v.WatchAll([]string{"a", "b"}, func(any, any) { fired++ })

	v.Set("a", 10)
	v.Set("b", 20)
	if fired != 2 {
		t.Errorf("expected both keys watched, got %d", fired)
	}
}

func TestExplicitScopeOption(t *testing.T) {
	f := MustNew(`<div></div>`)
	scopeView, _ := f.Create(map[string]any{"theme": "dark"})
	v, err := f.Create(nil, WithScope(scopeView))
	if err != nil {
		t.Fatal(err)
	}

	if v.Owner() != nil {
		t.Error("an explicit scope does not make the view a composed child")
	}
	if got := v.Get("theme"); got != "dark" {
		t.Errorf("explicit scope should resolve reads, got %v", got)
	}
}
