package properties

import (
	"testing"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
)

func TestAliasResolutionIsIdempotent(t *testing.T) {
	for _, m := range Registered() {
		if got := CanonicalKey(m.Key); got != m.Key {
			t.Fatalf("CanonicalKey(%q)=%q", m.Key, got)
		}
		for _, alias := range m.Aliases {
			if alias == "thickness" {
				continue
			}
			got := CanonicalKey(alias)
			if got != m.Key || CanonicalKey(got) != got {
				t.Fatalf("CanonicalKey(%q)=%q, want %q", alias, got, m.Key)
			}
		}
	}
}

func TestCanonicalKeyIgnoresCase(t *testing.T) {
	cases := map[string]string{
		"PIPE_SIZE":           "pipe_diameter",
		"pipesize":            "pipe_diameter",
		"Diameter":            "pipe_diameter",
		"WallThickness":       "wall_thickness",
		"Type":                "pipe_type",
		" Material ":          "material",
		"insulationthickness": "insulation_thickness",
	}
	for in, want := range cases {
		if got := CanonicalKey(in); got != want {
			t.Fatalf("CanonicalKey(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestSharedThicknessAliasGoesToFirstRegistered(t *testing.T) {
	if got := CanonicalKey("thickness"); got != "insulation_thickness" {
		t.Fatalf("CanonicalKey(thickness)=%q, want insulation_thickness", got)
	}
}

func TestUnknownKeyPassesThroughUnchanged(t *testing.T) {
	if got := CanonicalKey("JacketColor"); got != "JacketColor" {
		t.Fatalf("CanonicalKey(JacketColor)=%q", got)
	}
	if _, ok := Lookup("JacketColor"); ok {
		t.Fatalf("unregistered key should have no mapping")
	}
}

func TestNormalizeAndCompare(t *testing.T) {
	if got := Normalize("pipe_size", `1-1/2"`); got != 1.5 {
		t.Fatalf("Normalize(pipe_size)=%v", got)
	}
	if got := Normalize("facing", "ASJ"); got != "asj" {
		t.Fatalf("Normalize(facing)=%v", got)
	}
	if got := Normalize("gauge", "22 ga"); got != 22.0 {
		t.Fatalf("Normalize(gauge)=%v", got)
	}
	if got := Normalize("gauge", "heavy"); got != "heavy" {
		t.Fatalf("unparsable gauge should pass through, got %v", got)
	}
	// Unregistered keys fall back to the dimension heuristic when normalizing...
	if got := Normalize("outer_diameter", `2"`); got != 2.0 {
		t.Fatalf("Normalize(outer_diameter)=%v", got)
	}
	// ...but compare as plain text.
	if Compare("outer_diameter", `2"`, "2.0") {
		t.Fatalf("unregistered keys compare as text")
	}
	if !Compare("diameter", `2"`, "2.0") {
		t.Fatalf("registered dimension keys compare numerically")
	}
	if !Compare("gauge", "22", 22.0) {
		t.Fatalf("gauge should compare numerically")
	}
	if !Compare("gauge", "Heavy", "heavy") {
		t.Fatalf("non-numeric gauge should compare as text")
	}
	if !Compare("pipeType", "Copper", "COPPER") {
		t.Fatalf("enum comparison should ignore case")
	}
}

func TestNormalizeBag(t *testing.T) {
	in := catalog.PropertyBag{
		{Key: "pipeSize", Value: `2"`},
		{Key: "Facing", Value: "FSK"},
		{Key: "color", Value: "White"},
		{Key: "diameter", Value: `3"`},
	}
	out := NormalizeBag(in)
	keys := out.Keys()
	if len(keys) != 3 || keys[0] != "pipe_diameter" || keys[1] != "facing" || keys[2] != "color" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if v, _ := out.Get("pipe_diameter"); v != 3.0 {
		t.Fatalf("later alias should win, got %v", v)
	}
	if v, _ := out.Get("facing"); v != "fsk" {
		t.Fatalf("facing=%v", v)
	}
	if v, _ := out.Get("color"); v != "White" {
		t.Fatalf("unregistered value should be untouched, got %v", v)
	}

	fromMap := NormalizeMap(map[string]any{"wallThickness": "1/4"})
	if v, ok := fromMap.Get("wall_thickness"); !ok || v != 0.25 {
		t.Fatalf("NormalizeMap: wall_thickness=%v ok=%v", v, ok)
	}
}

func TestLoadRegistryRejectsBadInput(t *testing.T) {
	bad := []string{
		"properties:\n  - key: ''\n    data_type: enum\n",
		"properties:\n  - key: a\n    data_type: enum\n  - key: a\n    data_type: enum\n",
		"properties:\n  - key: a\n    data_type: colour\n",
		"properties: [",
	}
	for _, raw := range bad {
		if _, err := loadRegistry([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
