// Package panel renders the grid's display surfaces. Renderers are pure
// functions of the snapshot, so the same code draws a panel inside the main
// grid and inside a pop-out window; neither caller gets extra capability.
package panel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/gridscope/internal/format/table"
	"github.com/atomicstack/gridscope/internal/resource"
	"github.com/atomicstack/gridscope/internal/theme"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

// Panel type names, also used as the last segment of pop-out routes.
const (
	TypeResults  = "results"
	TypeStats    = "stats"
	TypeFilters  = "filters"
	TypeSelected = "selected"
)

// Types lists every known panel type in display order.
var Types = []string{TypeResults, TypeStats, TypeFilters, TypeSelected}

// Known reports whether panelType names a renderer.
func Known(panelType string) bool {
	for _, t := range Types {
		if t == panelType {
			return true
		}
	}
	return false
}

// Snapshot is the concrete snapshot type every panel renders from.
type Snapshot = resource.Snapshot[vehicle.Filters, vehicle.Vehicle, vehicle.Stats]

// Data bundles everything a renderer may need. Cursor and LocalFilter are
// ephemeral per-window state and never travel between contexts.
type Data struct {
	Snap          Snapshot
	SelectedItems []vehicle.Vehicle
	SelectedKeys  []string
	Cursor        int
	LocalFilter   string
	Width         int
}

var styles = theme.Default()

// Render draws one panel. Unknown panel types render an error body.
func Render(panelType string, d Data) string {
	switch panelType {
	case TypeResults:
		return renderResults(d)
	case TypeStats:
		return renderStats(d)
	case TypeFilters:
		return renderFilters(d)
	case TypeSelected:
		return renderSelected(d)
	default:
		return styles.Error.Render(fmt.Sprintf("unknown panel type %q", panelType))
	}
}

// VisibleRows applies the ephemeral fuzzy jump filter to the loaded page.
func VisibleRows(d Data) []vehicle.Vehicle {
	if strings.TrimSpace(d.LocalFilter) == "" {
		return d.Snap.Results
	}
	var out []vehicle.Vehicle
	for _, v := range d.Snap.Results {
		label := v.Manufacturer + " " + v.Model + " " + v.VIN + " " + v.Color
		if fuzzy.MatchNormalizedFold(d.LocalFilter, label) {
			out = append(out, v)
		}
	}
	return out
}

func renderResults(d Data) string {
	var b strings.Builder
	total := d.Snap.TotalResults
	page := d.Snap.Filters.Page
	pages := pageCount(total, d.Snap.Filters.PageSize)
	title := fmt.Sprintf("Results  %d vehicles  page %d/%d", total, page, pages)
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteByte('\n')

	if d.Snap.Err != "" {
		b.WriteString(styles.Error.Render("error: " + d.Snap.Err))
		b.WriteByte('\n')
	}
	if d.Snap.Loading {
		b.WriteString(styles.Loading.Render("loading…"))
		b.WriteByte('\n')
	}

	rows := VisibleRows(d)
	if len(rows) == 0 {
		b.WriteString(styles.Info.Render("no vehicles match"))
		return b.String()
	}

	selected := make(map[string]struct{}, len(d.SelectedKeys))
	for _, k := range d.SelectedKeys {
		selected[k] = struct{}{}
	}

	cells := make([][]string, 0, len(rows))
	for _, v := range rows {
		mark := " "
		if _, ok := selected[v.VIN]; ok {
			mark = "x"
		}
		cells = append(cells, []string{
			"[" + mark + "]",
			v.Manufacturer,
			v.Model,
			fmt.Sprintf("%d", v.Year),
			fmt.Sprintf("$%d", v.Price),
			fmt.Sprintf("%dmi", v.Mileage),
			v.Fuel,
			v.BodyStyle,
		})
	}
	aligns := []table.Alignment{
		table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignRight,
		table.AlignRight, table.AlignRight, table.AlignLeft, table.AlignLeft,
	}
	lines := table.FormatWithHeader(
		[]string{"   ", "Make", "Model", "Year", "Price", "Miles", "Fuel", "Body"},
		cells, aligns)

	for i, line := range lines {
		if d.Width > 0 {
			line = table.Truncate(line, d.Width)
		}
		if i < 2 {
			b.WriteString(styles.Header.Render(line))
			b.WriteByte('\n')
			continue
		}
		row := rows[i-2]
		style := styles.Row
		switch {
		case i-2 == d.Cursor:
			style = styles.SelectedRow
		case vehicle.Highlighted(row, d.Snap.Highlights):
			style = styles.HighlightedRow
		}
		indicator := "  "
		if i-2 == d.Cursor {
			indicator = styles.SelectedIndicator.Render("> ")
		}
		b.WriteString(indicator)
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStats(d Data) string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Statistics"))
	b.WriteByte('\n')
	s := d.Snap.Stats
	if d.Snap.TotalResults == 0 {
		b.WriteString(styles.Info.Render("no data"))
		return b.String()
	}
	writeStat(&b, "matches", fmt.Sprintf("%d", d.Snap.TotalResults))
	writeStat(&b, "avg price", fmt.Sprintf("$%d", s.AveragePrice))
	writeStat(&b, "avg mileage", fmt.Sprintf("%dmi", s.AverageMileage))
	writeStat(&b, "years", fmt.Sprintf("%d-%d", s.YearMin, s.YearMax))
	for _, k := range sortedKeys(s.ByManufacturer) {
		writeStat(&b, k, fmt.Sprintf("%d", s.ByManufacturer[k]))
	}
	for _, k := range sortedKeys(s.ByFuel) {
		writeStat(&b, k, fmt.Sprintf("%d", s.ByFuel[k]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFilters(d Data) string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Active Filters"))
	b.WriteByte('\n')
	f := d.Snap.Filters
	empty := true
	writeList := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		writeStat(&b, label, strings.Join(values, ", "))
		empty = false
	}
	writeList("manufacturer", f.Manufacturers)
	writeList("model", f.Models)
	writeList("fuel", f.Fuels)
	writeList("body", f.BodyStyles)
	if f.YearMin > 0 || f.YearMax > 0 {
		writeStat(&b, "years", fmt.Sprintf("%d-%d", f.YearMin, f.YearMax))
		empty = false
	}
	if f.PriceMax > 0 {
		writeStat(&b, "max price", fmt.Sprintf("$%d", f.PriceMax))
		empty = false
	}
	if f.MileageMax > 0 {
		writeStat(&b, "max mileage", fmt.Sprintf("%dmi", f.MileageMax))
		empty = false
	}
	if f.Query != "" {
		writeStat(&b, "search", f.Query)
		empty = false
	}
	for _, k := range sortedKeys(d.Snap.Highlights) {
		b.WriteString(styles.Badge.Render("highlight " + k + "=" + d.Snap.Highlights[k]))
		b.WriteByte('\n')
		empty = false
	}
	if empty {
		b.WriteString(styles.Info.Render("none"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSelected(d Data) string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(fmt.Sprintf("Selected  %d", len(d.SelectedKeys))))
	b.WriteByte('\n')
	if len(d.SelectedKeys) == 0 {
		b.WriteString(styles.Info.Render("nothing selected"))
		return b.String()
	}
	resolved := make(map[string]vehicle.Vehicle, len(d.SelectedItems))
	for _, v := range d.SelectedItems {
		resolved[v.VIN] = v
	}
	for _, key := range d.SelectedKeys {
		if v, ok := resolved[key]; ok {
			line := fmt.Sprintf("%s %s %d  $%d  %s", v.Manufacturer, v.Model, v.Year, v.Price, v.VIN)
			if d.Width > 0 {
				line = table.Truncate(line, d.Width)
			}
			b.WriteString(styles.Row.Render(line))
		} else {
			// Key selected on another page and not yet seen here.
			b.WriteString(styles.Info.Render(key + " (not loaded)"))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeStat(b *strings.Builder, label, value string) {
	b.WriteString(styles.StatLabel.Render(label + ": "))
	b.WriteString(styles.StatValue.Render(value))
	b.WriteByte('\n')
}

func pageCount(total, size int) int {
	if size < 1 {
		size = vehicle.DefaultPageSize
	}
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
