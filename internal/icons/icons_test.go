package icons

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	tests := []struct {
		keyword string
		want    string
	}{
		{"Clouds", "cloudy"},
		{"Rain", "rain"},
		{"Clear", "day-sunny"},
		{"Snow", "snow"},
		{"Drizzle", "rains"},
		{"Thunderstorm", "lightning"},
		{"Atmosphere", "cloudy-gusts"},
		{"Mist", "cloudy-gusts"},
		{"Tornado", "cloudy-gusts"},
		{"Volcano", "question"},
		{"", "question"},
		{"clouds", "question"},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := table.Lookup(tt.keyword); got.Name != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.keyword, got.Name, tt.want)
			}
		})
	}
}

func TestLookupAlwaysHasGlyph(t *testing.T) {
	table := Default()
	for _, k := range []string{"Clouds", "Nope", ""} {
		if table.Lookup(k).Glyph == "" {
			t.Errorf("Lookup(%q) has no glyph", k)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "icons.yaml")
	if err := os.WriteFile(good, []byte(`
default: {name: day-cloudy}
icons:
  Clouds: {name: cloud, glyph: "c"}
  Rain: {name: umbrella}
`), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error = %v", err)
	}
	if got := table.Lookup("Clouds"); got != (Icon{Name: "cloud", Glyph: "c"}) {
		t.Errorf("Lookup(Clouds) = %+v", got)
	}
	if got := table.Lookup("Rain"); got.Glyph != "?" {
		t.Errorf("Lookup(Rain).Glyph = %q, want default glyph", got.Glyph)
	}
	if got := table.Lookup("Snow"); got.Name != "day-cloudy" {
		t.Errorf("Lookup(Snow) = %q, want day-cloudy", got.Name)
	}

	noDefault := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(noDefault, []byte("icons:\n  Clear: {name: sun}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(noDefault); err == nil {
		t.Error("LoadFile() accepted a table without a default icon")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFile() accepted a missing file")
	}
}
