package browser

import (
	"testing"

	"github.com/ziadkadry99/docnav/internal/navigator"
)

func TestStateObject(t *testing.T) {
	if got := stateObject(nil); got != nil {
		t.Errorf("nil state: got %v, want nil", got)
	}
	got := stateObject(&navigator.State{Path: "/docs/guide#setup", PageYOffset: 120})
	if got["path"] != "/docs/guide#setup" || got["pageYOffset"] != 120.0 {
		t.Errorf("state object: got %v", got)
	}
}

func TestFragment(t *testing.T) {
	tests := map[string]string{"": "", "#": "", "#setup": "setup", "plain": "plain"}
	for in, want := range tests {
		if got := fragment(in); got != want {
			t.Errorf("fragment(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestConsoleMethod(t *testing.T) {
	tests := map[string]string{
		`time=x level=ERROR msg="navigation: replacing article"`: "error",
		`time=x level=WARN msg="navigation: fetch failed"`:       "warn",
		`time=x level=DEBUG msg="navigation: spinner shown"`:     "debug",
		`time=x level=INFO msg=hello`:                            "log",
	}
	for line, want := range tests {
		if got := consoleMethod(line); got != want {
			t.Errorf("consoleMethod(%q): got %q, want %q", line, got, want)
		}
	}
}

func TestRegistryAddGet(t *testing.T) {
	r := newRegistry[string]()
	a := r.add("a")
	b := r.add("b")
	if a == b {
		t.Fatalf("ids should differ, both %d", a)
	}
	if got, ok := r.get(b); !ok || got != "b" {
		t.Errorf("get(%d): got %q, %v, want %q", b, got, ok, "b")
	}
	if _, ok := r.get(b + 1); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestRegistryRemoveReleasesEntries(t *testing.T) {
	r := newRegistry[string]()
	ids := make([]int, 0, 50)
	for i := 0; i < 50; i++ {
		ids = append(ids, r.add("link"))
	}
	for _, id := range ids {
		if _, ok := r.remove(id); !ok {
			t.Fatalf("remove(%d) should find the entry", id)
		}
	}
	if got := r.len(); got != 0 {
		t.Errorf("len after removing every entry: got %d, want 0", got)
	}
	if _, ok := r.remove(ids[0]); ok {
		t.Error("removing twice should report nothing removed")
	}

	next := r.add("article")
	for _, id := range ids {
		if id == next {
			t.Errorf("id %d was reused", id)
		}
	}
	if got := r.len(); got != 1 {
		t.Errorf("len: got %d, want 1", got)
	}
}
