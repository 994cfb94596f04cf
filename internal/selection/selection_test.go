package selection

import (
	"reflect"
	"testing"
)

type row struct {
	Key   string
	Price int
}

func rowKey(r row) string { return r.Key }

func keysOf(items []row) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	return keys
}

func TestParseKeysAcceptsBothSeparators(t *testing.T) {
	got := ParseKeys("a,b|c, ,d")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseKeys = %v, want %v", got, want)
	}
	if ParseKeys("") != nil {
		t.Fatalf("empty input must parse to no keys")
	}
}

func TestSelectionSurvivesPagination(t *testing.T) {
	s := New(rowKey)

	page1 := []row{{Key: "A", Price: 100}, {Key: "X", Price: 50}}
	s.ObservePage(page1)
	s.Toggle(page1[0])

	page2 := []row{{Key: "B", Price: 200}, {Key: "Y", Price: 75}}
	s.ObservePage(page2)
	s.Toggle(page2[0])

	s.ObservePage(page1)

	want := []string{"A", "B"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("selection lost across pagination: %v", got)
	}
	// B is off-page but its data must still resolve from the cache.
	if got := keysOf(s.Items()); !reflect.DeepEqual(got, want) {
		t.Fatalf("items did not resolve from cache: %v", got)
	}
}

func TestHydrateBeforeDataIsPending(t *testing.T) {
	s := New(rowKey)
	s.Hydrate("A|B")
	if got := s.Pending(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("keys not parked pending first data: %v", got)
	}
	if len(s.Items()) != 0 {
		t.Fatalf("no items can resolve before data arrives")
	}

	s.ObservePage([]row{{Key: "A", Price: 1}, {Key: "C", Price: 3}})
	if len(s.Pending()) != 0 {
		t.Fatalf("pending must clear on first page: %v", s.Pending())
	}
	// B never loaded; it stays selected with no resolvable data.
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("unresolvable key dropped from selection: %v", got)
	}
	if got := keysOf(s.Items()); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("unexpected resolved items %v", got)
	}
}

func TestHydrateAfterDataResolvesImmediately(t *testing.T) {
	s := New(rowKey)
	s.ObservePage([]row{{Key: "A", Price: 1}, {Key: "B", Price: 2}})
	s.Hydrate("B,A,B")
	if len(s.Pending()) != 0 {
		t.Fatalf("nothing should be pending once data is loaded")
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("duplicate keys not collapsed: %v", got)
	}
	if got := keysOf(s.Items()); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("hydrate did not resolve against loaded page: %v", got)
	}
}

func TestCurrentPageWinsOverCache(t *testing.T) {
	s := New(rowKey)
	s.ObservePage([]row{{Key: "A", Price: 100}})
	s.Toggle(row{Key: "A", Price: 100})

	// Same key comes back with fresher data.
	s.ObservePage([]row{{Key: "A", Price: 90}})
	items := s.Items()
	if len(items) != 1 || items[0].Price != 90 {
		t.Fatalf("stale cached copy won over the loaded page: %+v", items)
	}
}

func TestCacheSurvivesDeselectAndClear(t *testing.T) {
	s := New(rowKey)
	s.ObservePage([]row{{Key: "A", Price: 1}})
	s.Toggle(row{Key: "A", Price: 1})
	s.Deselect("A")
	if s.Selected("A") {
		t.Fatalf("deselect did not remove the key")
	}

	// Re-select by key alone while a different page is loaded; the cache
	// must still resolve the row.
	s.ObservePage([]row{{Key: "Z", Price: 9}})
	s.Hydrate("A")
	if got := keysOf(s.Items()); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("cache did not survive deselection: %v", got)
	}

	s.Clear()
	if len(s.Keys()) != 0 || len(s.Items()) != 0 {
		t.Fatalf("clear left selection state behind")
	}
	s.Hydrate("A")
	if got := keysOf(s.Items()); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("cache did not survive clear: %v", got)
	}
}

func TestToggleFlipsMembership(t *testing.T) {
	s := New(rowKey)
	r := row{Key: "A", Price: 5}
	s.Toggle(r)
	if !s.Selected("A") {
		t.Fatalf("toggle did not select")
	}
	s.Toggle(r)
	if s.Selected("A") {
		t.Fatalf("toggle did not deselect")
	}
	if s.Serialize() != "" {
		t.Fatalf("empty selection must serialize empty, got %q", s.Serialize())
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	s := New(rowKey)
	s.Toggle(row{Key: "b"})
	s.Toggle(row{Key: "a"})
	if got := s.Serialize(); got != "a,b" {
		t.Fatalf("Serialize = %q, want sorted a,b", got)
	}
}
