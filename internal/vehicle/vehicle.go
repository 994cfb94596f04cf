// Package vehicle defines the catalog domain: the row type, the filter set
// that round-trips through URL params, and the statistics computed over a
// result set.
package vehicle

import (
	"sort"
	"strconv"
	"strings"

	"github.com/atomicstack/gridscope/internal/nav"
	"github.com/atomicstack/gridscope/internal/resource"
)

// DefaultPageSize is applied when the URL carries no pageSize param.
const DefaultPageSize = 20

// Vehicle is one catalog row. The VIN is the stable key used for selection
// and highlighting.
type Vehicle struct {
	VIN          string `json:"vin"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Price        int    `json:"price"`
	Mileage      int    `json:"mileage"`
	Fuel         string `json:"fuel"`
	BodyStyle    string `json:"bodyStyle"`
	Color        string `json:"color"`
}

// Key returns the row's stable identity.
func (v Vehicle) Key() string { return v.VIN }

// Stats summarises one result set.
type Stats struct {
	AveragePrice   int            `json:"averagePrice"`
	AverageMileage int            `json:"averageMileage"`
	YearMin        int            `json:"yearMin"`
	YearMax        int            `json:"yearMax"`
	ByManufacturer map[string]int `json:"byManufacturer"`
	ByFuel         map[string]int `json:"byFuel"`
}

// ComputeStats aggregates over a full (unpaginated) match set.
func ComputeStats(rows []Vehicle) Stats {
	s := Stats{
		ByManufacturer: map[string]int{},
		ByFuel:         map[string]int{},
	}
	if len(rows) == 0 {
		return s
	}
	priceSum, mileageSum := 0, 0
	s.YearMin, s.YearMax = rows[0].Year, rows[0].Year
	for _, v := range rows {
		priceSum += v.Price
		mileageSum += v.Mileage
		if v.Year < s.YearMin {
			s.YearMin = v.Year
		}
		if v.Year > s.YearMax {
			s.YearMax = v.Year
		}
		s.ByManufacturer[v.Manufacturer]++
		s.ByFuel[v.Fuel]++
	}
	s.AveragePrice = priceSum / len(rows)
	s.AverageMileage = mileageSum / len(rows)
	return s
}

// Filters is the typed form of the URL query state. Selected rides along so
// a snapshot replicates the selection, but BuildKey excludes it: selection
// changes never owe a refetch.
type Filters struct {
	Manufacturers []string `json:"manufacturers"`
	Models        []string `json:"models"`
	Fuels         []string `json:"fuels"`
	BodyStyles    []string `json:"bodyStyles"`
	YearMin       int      `json:"yearMin"`
	YearMax       int      `json:"yearMax"`
	PriceMax      int      `json:"priceMax"`
	MileageMax    int      `json:"mileageMax"`
	Query         string   `json:"query"`
	Page          int      `json:"page"`
	PageSize      int      `json:"pageSize"`
	Selected      []string `json:"selected"`
}

const highlightPrefix = "h_"

// multi-value params and their struct fields share ordering here.
var listParams = []string{"manufacturer", "model", "fuel", "body"}

// Codec translates between nav params and Filters. It satisfies
// resource.Codec[Filters].
type Codec struct{}

// FromParams decodes the query params into Filters, normalizing list
// separators and defaulting pagination. Unknown params are ignored.
func (Codec) FromParams(p nav.Params) Filters {
	f := Filters{
		Manufacturers: splitList(p["manufacturer"]),
		Models:        splitList(p["model"]),
		Fuels:         splitList(p["fuel"]),
		BodyStyles:    splitList(p["body"]),
		YearMin:       atoi(p["yearMin"]),
		YearMax:       atoi(p["yearMax"]),
		PriceMax:      atoi(p["priceMax"]),
		MileageMax:    atoi(p["mileageMax"]),
		Query:         p["q"],
		Page:          atoi(p["page"]),
		PageSize:      atoi(p["pageSize"]),
		Selected:      splitList(p["selected"]),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// ExtractHighlights collects h_-prefixed params.
func (Codec) ExtractHighlights(p nav.Params) resource.Highlights {
	h := resource.Highlights{}
	for k, v := range p {
		if rest, ok := strings.CutPrefix(k, highlightPrefix); ok && rest != "" {
			h[rest] = v
		}
	}
	return h
}

// ToParams encodes Filters back into query params. Defaults are omitted so
// an untouched UI yields an empty URL.
func (f Filters) ToParams() nav.Params {
	p := nav.Params{}
	setList(p, "manufacturer", f.Manufacturers)
	setList(p, "model", f.Models)
	setList(p, "fuel", f.Fuels)
	setList(p, "body", f.BodyStyles)
	setInt(p, "yearMin", f.YearMin)
	setInt(p, "yearMax", f.YearMax)
	setInt(p, "priceMax", f.PriceMax)
	setInt(p, "mileageMax", f.MileageMax)
	if f.Query != "" {
		p["q"] = f.Query
	}
	if f.Page > 1 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 && f.PageSize != DefaultPageSize {
		p["pageSize"] = strconv.Itoa(f.PageSize)
	}
	setList(p, "selected", f.Selected)
	return p
}

// HighlightParam names the URL param carrying one highlight attribute.
func HighlightParam(attribute string) string {
	return highlightPrefix + attribute
}

// BuildKey derives the generation key for a fetch: every fetch-relevant
// field in sorted k=v form. Selected is deliberately absent. It satisfies
// resource.KeyFunc[Filters].
func BuildKey(f Filters, h resource.Highlights) string {
	parts := []string{
		"manufacturer=" + joinSorted(f.Manufacturers),
		"model=" + joinSorted(f.Models),
		"fuel=" + joinSorted(f.Fuels),
		"body=" + joinSorted(f.BodyStyles),
		"yearMin=" + strconv.Itoa(f.YearMin),
		"yearMax=" + strconv.Itoa(f.YearMax),
		"priceMax=" + strconv.Itoa(f.PriceMax),
		"mileageMax=" + strconv.Itoa(f.MileageMax),
		"q=" + f.Query,
		"page=" + strconv.Itoa(f.Page),
		"pageSize=" + strconv.Itoa(f.PageSize),
	}
	for k, v := range h {
		parts = append(parts, highlightPrefix+k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// Matches reports whether the vehicle passes every active filter. Highlights
// are not filters and play no part here.
func (f Filters) Matches(v Vehicle) bool {
	if !containsFold(f.Manufacturers, v.Manufacturer) {
		return false
	}
	if !containsFold(f.Models, v.Model) {
		return false
	}
	if !containsFold(f.Fuels, v.Fuel) {
		return false
	}
	if !containsFold(f.BodyStyles, v.BodyStyle) {
		return false
	}
	if f.YearMin > 0 && v.Year < f.YearMin {
		return false
	}
	if f.YearMax > 0 && v.Year > f.YearMax {
		return false
	}
	if f.PriceMax > 0 && v.Price > f.PriceMax {
		return false
	}
	if f.MileageMax > 0 && v.Mileage > f.MileageMax {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hay := strings.ToLower(v.Manufacturer + " " + v.Model + " " + v.VIN + " " + v.Color)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// Highlighted reports whether the vehicle matches any highlight attribute.
func Highlighted(v Vehicle, h resource.Highlights) bool {
	for attr, val := range h {
		var field string
		switch attr {
		case "manufacturer":
			field = v.Manufacturer
		case "model":
			field = v.Model
		case "fuel":
			field = v.Fuel
		case "body":
			field = v.BodyStyle
		case "color":
			field = v.Color
		default:
			continue
		}
		if strings.EqualFold(field, val) {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	normalized := strings.ReplaceAll(raw, "|", ",")
	var out []string
	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func setList(p nav.Params, key string, values []string) {
	if len(values) == 0 {
		return
	}
	p[key] = strings.Join(values, ",")
}

func setInt(p nav.Params, key string, v int) {
	if v <= 0 {
		return
	}
	p[key] = strconv.Itoa(v)
}

func atoi(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func joinSorted(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func containsFold(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
