package route

import "testing"

func TestParsePopout(t *testing.T) {
	cases := []struct {
		path string
		want Popout
		ok   bool
	}{
		{"/popout/grid1/results/table", Popout{"grid1", "results", "table"}, true},
		{"popout/grid1/stats/summary", Popout{"grid1", "stats", "summary"}, true},
		{"/popout/grid1/results", Popout{}, false},
		{"/popout/grid1/results/table/extra", Popout{}, false},
		{"/other/grid1/results/table", Popout{}, false},
		{"/", Popout{}, false},
		{"", Popout{}, false},
		{"/popout//results/table", Popout{}, false},
	}
	for _, tc := range cases {
		got, ok := ParsePopout(tc.path)
		if ok != tc.ok {
			t.Fatalf("%q: ok = %v, want %v", tc.path, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("%q: got %+v want %+v", tc.path, got, tc.want)
		}
	}
}

func TestDetectRoleByPathShape(t *testing.T) {
	if Detect("/popout/g/results/table") != RolePopout {
		t.Fatalf("pop-out path not detected")
	}
	if Detect("/") != RoleMain {
		t.Fatalf("root path should be main")
	}
	// A query-style role flag must not influence detection.
	if Detect("/?role=popout") != RoleMain {
		t.Fatalf("role must come from path shape, not parameters")
	}
}

func TestPopoutPathRoundTrip(t *testing.T) {
	p := Popout{GridID: "g7", PanelID: "stats", PanelType: "summary"}
	parsed, ok := ParsePopout(p.Path())
	if !ok || parsed != p {
		t.Fatalf("round trip failed: %+v -> %q -> %+v", p, p.Path(), parsed)
	}
}
