package resource

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/gridscope/internal/nav"
	"github.com/atomicstack/gridscope/internal/route"
)

// testFilters is a minimal filter value for orchestrator tests; the real
// domain codec lives in internal/vehicle.
type testFilters struct {
	Query    string   `json:"query"`
	Selected []string `json:"selected"`
}

type testStats struct {
	Count int `json:"count"`
}

type testCodec struct{}

func (testCodec) FromParams(p nav.Params) testFilters {
	f := testFilters{Query: p["q"]}
	if raw := p["selected"]; raw != "" {
		f.Selected = strings.Split(raw, ",")
	}
	return f
}

func (testCodec) ExtractHighlights(p nav.Params) Highlights {
	h := Highlights{}
	for k, v := range p {
		if rest, ok := strings.CutPrefix(k, "h_"); ok {
			h[rest] = v
		}
	}
	return h
}

func testKey(f testFilters, h Highlights) string {
	// Selection is deliberately outside the key: changing it owes no fetch.
	parts := []string{"q=" + f.Query}
	for k, v := range h {
		parts = append(parts, "h_"+k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

type fetchCall struct {
	filters    testFilters
	highlights Highlights
	release    chan struct{}
}

// blockingFetcher hands each call a release gate so tests control resolution
// order.
type blockingFetcher struct {
	mu    sync.Mutex
	calls []*fetchCall
	fail  error
	rows  []string
}

func (f *blockingFetcher) Fetch(ctx context.Context, filters testFilters, highlights Highlights) (Result[string, testStats], error) {
	call := &fetchCall{filters: filters, highlights: highlights, release: make(chan struct{})}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	select {
	case <-call.release:
	case <-ctx.Done():
		return Result[string, testStats]{}, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return Result[string, testStats]{}, f.fail
	}
	rows := append([]string(nil), f.rows...)
	rows = append(rows, "q:"+filters.Query)
	return Result[string, testStats]{Rows: rows, Total: len(rows), Stats: testStats{Count: len(rows)}}, nil
}

func (f *blockingFetcher) call(t *testing.T, idx int) *fetchCall {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		f.mu.Lock()
		if len(f.calls) > idx {
			call := f.calls[idx]
			f.mu.Unlock()
			return call
		}
		f.mu.Unlock()
		if time.Now().After(deadline) {
			t.Fatalf("fetch call %d never arrived", idx)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (f *blockingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitForSnapshot(t *testing.T, o *Orchestrator[testFilters, string, testStats], pred func(Snapshot[testFilters, string, testStats]) bool) Snapshot[testFilters, string, testStats] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		select {
		case snap := <-o.Updates():
			if pred(snap) {
				return snap
			}
		case <-time.After(time.Until(deadline)):
			t.Fatalf("timed out waiting for snapshot; current phase %v", o.Phase())
		}
	}
}

func newMainHarness(t *testing.T) (*nav.Bridge, *blockingFetcher, *Orchestrator[testFilters, string, testStats]) {
	t.Helper()
	bridge := nav.NewBridge(nav.NewMemoryLocation())
	fetcher := &blockingFetcher{}
	o := NewMain[testFilters, string, testStats](bridge, testCodec{}, fetcher, testKey)
	t.Cleanup(func() {
		o.Close()
		bridge.Close()
	})
	// The watch stream seeds with the current (empty) params, which starts
	// the initial generation; settle it so tests observe a ready baseline.
	close(fetcher.call(t, 0).release)
	waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return !s.Loading && s.Err == ""
	})
	return bridge, fetcher, o
}

func strPtr(s string) *string { return &s }

func TestStaleResultIsDiscarded(t *testing.T) {
	bridge, fetcher, o := newMainHarness(t)

	bridge.Merge(map[string]*string{"q": strPtr("one")}, false)
	first := fetcher.call(t, 1)

	bridge.Merge(map[string]*string{"q": strPtr("two")}, false)
	second := fetcher.call(t, 2)

	// Resolve the newer generation first, then the stale one.
	close(second.release)
	snap := waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return !s.Loading && s.Filters.Query == "two"
	})
	if snap.Filters.Query != "two" {
		t.Fatalf("expected committed state for q=two, got %+v", snap.Filters)
	}

	close(first.release)
	time.Sleep(50 * time.Millisecond)
	final := o.Snapshot()
	if len(final.Results) == 0 || final.Results[len(final.Results)-1] != "q:two" {
		t.Fatalf("stale result overwrote the committed state: %+v", final.Results)
	}
	if o.Phase() != PhaseReady {
		t.Fatalf("expected ready phase, got %v", o.Phase())
	}
}

func TestFetchFailureRetainsPriorResults(t *testing.T) {
	bridge, fetcher, o := newMainHarness(t)

	bridge.Merge(map[string]*string{"q": strPtr("good")}, false)
	close(fetcher.call(t, 1).release)
	waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return !s.Loading && s.Filters.Query == "good"
	})

	fetcher.mu.Lock()
	fetcher.fail = errors.New("backend down")
	fetcher.mu.Unlock()

	bridge.Merge(map[string]*string{"q": strPtr("bad")}, false)
	close(fetcher.call(t, 2).release)
	snap := waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return s.Err != ""
	})
	if snap.Loading {
		t.Fatalf("loading must clear on failure")
	}
	if snap.Err != "backend down" {
		t.Fatalf("unexpected error %q", snap.Err)
	}
	if len(snap.Results) == 0 || snap.Results[len(snap.Results)-1] != "q:good" {
		t.Fatalf("prior results must survive a failed fetch, got %v", snap.Results)
	}
	if o.Phase() != PhaseError {
		t.Fatalf("expected error phase, got %v", o.Phase())
	}
}

func TestSelectionOnlyChangeSkipsFetch(t *testing.T) {
	bridge, fetcher, o := newMainHarness(t)

	bridge.Merge(map[string]*string{"q": strPtr("cars")}, false)
	close(fetcher.call(t, 1).release)
	waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return !s.Loading && s.Filters.Query == "cars"
	})

	bridge.Merge(map[string]*string{"selected": strPtr("a,b")}, false)
	snap := waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return len(s.Filters.Selected) == 2
	})
	if snap.Loading {
		t.Fatalf("selection change must not enter loading")
	}
	if fetcher.count() != 2 {
		t.Fatalf("selection change issued a fetch: %d calls", fetcher.count())
	}
}

func TestHighlightChangeTriggersExactlyOneFetch(t *testing.T) {
	bridge, fetcher, o := newMainHarness(t)

	bridge.Merge(map[string]*string{"q": strPtr("x"), "h_manufacturer": strPtr("Chevrolet")}, false)
	call := fetcher.call(t, 1)
	if call.highlights["manufacturer"] != "Chevrolet" {
		t.Fatalf("highlights not passed to fetch: %v", call.highlights)
	}
	close(call.release)
	snap := waitForSnapshot(t, o, func(s Snapshot[testFilters, string, testStats]) bool {
		return !s.Loading
	})
	if snap.Highlights["manufacturer"] != "Chevrolet" {
		t.Fatalf("committed highlights wrong: %v", snap.Highlights)
	}
	if fetcher.count() != 2 {
		t.Fatalf("expected exactly one additional fetch, got %d total", fetcher.count())
	}
}

func TestPopoutIngestIsImmediateReady(t *testing.T) {
	o := NewPopout[testFilters, string, testStats]()
	defer o.Close()
	if o.Role() != route.RolePopout {
		t.Fatalf("unexpected role %v", o.Role())
	}
	if o.Phase() != PhaseIdle {
		t.Fatalf("expected idle before ingest")
	}
	o.IngestSnapshot(Snapshot[testFilters, string, testStats]{
		Filters:      testFilters{Query: "replicated"},
		Results:      []string{"r1"},
		TotalResults: 1,
	})
	if o.Phase() != PhaseReady {
		t.Fatalf("ingest must transition straight to ready, got %v", o.Phase())
	}
	snap := <-o.Updates()
	if snap.Filters.Query != "replicated" || snap.TotalResults != 1 {
		t.Fatalf("snapshot not replaced wholesale: %+v", snap)
	}
}

func TestMainIgnoresIngest(t *testing.T) {
	_, _, o := newMainHarness(t)
	o.IngestSnapshot(Snapshot[testFilters, string, testStats]{TotalResults: 99})
	if o.Snapshot().TotalResults == 99 {
		t.Fatalf("main-role orchestrator accepted an ingest")
	}
}
