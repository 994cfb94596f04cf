package nav

import (
	"net/url"
	"sort"
	"strings"
)

// Params holds the navigable query state as a flat key/value map. Equality is
// content-based; the serialized form is never used for comparison because key
// order varies between encodings of the same state.
type Params map[string]string

// Clone returns an independent copy of the params.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	dup := make(Params, len(p))
	for k, v := range p {
		dup[k] = v
	}
	return dup
}

// Equal reports whether two param maps carry the same content.
func (p Params) Equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Encode renders the params as a canonical query string with sorted keys.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}

// ParseQuery decodes a query string into params. Malformed pairs are skipped;
// repeated keys keep the last value.
func ParseQuery(query string) Params {
	params := Params{}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		params[key] = value
	}
	return params
}
