package panel

import (
	"strings"
	"testing"

	"github.com/atomicstack/gridscope/internal/resource"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

func rows() []vehicle.Vehicle {
	return []vehicle.Vehicle{
		{VIN: "VIN001", Manufacturer: "Ford", Model: "F-150", Year: 2021, Price: 42000, Mileage: 18000, Fuel: "Gasoline", BodyStyle: "Truck", Color: "Blue"},
		{VIN: "VIN002", Manufacturer: "Tesla", Model: "Model 3", Year: 2023, Price: 39000, Mileage: 5000, Fuel: "Electric", BodyStyle: "Sedan", Color: "White"},
	}
}

func snapshot() Snapshot {
	r := rows()
	return Snapshot{
		Filters:      vehicle.Filters{Page: 1, PageSize: vehicle.DefaultPageSize},
		Results:      r,
		TotalResults: len(r),
		Stats:        vehicle.ComputeStats(r),
	}
}

func TestVisibleRowsAppliesLocalFilter(t *testing.T) {
	d := Data{Snap: snapshot(), LocalFilter: "tesla"}
	visible := VisibleRows(d)
	if len(visible) != 1 || visible[0].VIN != "VIN002" {
		t.Fatalf("fuzzy filter kept wrong rows: %v", visible)
	}

	d.LocalFilter = "  "
	if got := len(VisibleRows(d)); got != 2 {
		t.Fatalf("blank filter must keep the whole page, got %d rows", got)
	}
}

func TestRenderResultsMarksSelection(t *testing.T) {
	out := Render(TypeResults, Data{Snap: snapshot(), SelectedKeys: []string{"VIN002"}})
	if !strings.Contains(out, "Model 3") {
		t.Fatalf("results body missing row: %s", out)
	}
	lines := strings.Split(out, "\n")
	var teslaLine string
	for _, line := range lines {
		if strings.Contains(line, "Tesla") {
			teslaLine = line
		}
	}
	if !strings.Contains(teslaLine, "[x]") {
		t.Fatalf("selected row not marked: %q", teslaLine)
	}
}

func TestRenderResultsShowsPagination(t *testing.T) {
	snap := snapshot()
	snap.TotalResults = 45
	snap.Filters.Page = 2
	out := Render(TypeResults, Data{Snap: snap})
	if !strings.Contains(out, "page 2/3") {
		t.Fatalf("pagination line missing: %s", out)
	}
}

func TestRenderSelectedShowsUnresolvedKeys(t *testing.T) {
	out := Render(TypeSelected, Data{
		Snap:          snapshot(),
		SelectedKeys:  []string{"VIN001", "VIN999"},
		SelectedItems: rows()[:1],
	})
	if !strings.Contains(out, "F-150") {
		t.Fatalf("resolved selection missing: %s", out)
	}
	if !strings.Contains(out, "VIN999 (not loaded)") {
		t.Fatalf("unresolved key placeholder missing: %s", out)
	}
}

func TestRenderFiltersListsHighlights(t *testing.T) {
	snap := snapshot()
	snap.Filters.Manufacturers = []string{"Ford", "Tesla"}
	snap.Highlights = resource.Highlights{"fuel": "Electric"}
	out := Render(TypeFilters, Data{Snap: snap})
	if !strings.Contains(out, "Ford, Tesla") {
		t.Fatalf("list filter missing: %s", out)
	}
	if !strings.Contains(out, "highlight fuel=Electric") {
		t.Fatalf("highlight badge missing: %s", out)
	}
}

func TestRenderStatsEmpty(t *testing.T) {
	out := Render(TypeStats, Data{})
	if !strings.Contains(out, "no data") {
		t.Fatalf("empty stats placeholder missing: %s", out)
	}
}

func TestRenderUnknownPanelType(t *testing.T) {
	out := Render("bogus", Data{})
	if !strings.Contains(out, "unknown panel type") {
		t.Fatalf("unknown panel should render an error body: %s", out)
	}
	if Known("bogus") {
		t.Fatalf("bogus must not be a known panel type")
	}
}
