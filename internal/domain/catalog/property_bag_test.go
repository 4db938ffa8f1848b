package catalog

import (
	"encoding/json"
	"testing"
)

func TestPropertyBagKeepsObjectOrder(t *testing.T) {
	var b PropertyBag
	if err := json.Unmarshal([]byte(`{"z":"1","a":2,"m":"3/4\""}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := b.Keys()
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "a" || keys[2] != "m" {
		t.Fatalf("unexpected key order: %v", keys)
	}
	if v, _ := b.Get("a"); v != 2.0 {
		t.Fatalf("expected numbers to decode as float64, got %T", v)
	}
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"z":"1","a":2,"m":"3/4\""}` {
		t.Fatalf("unexpected encoding: %s", raw)
	}
}

func TestPropertyBagAcceptsEntryArrays(t *testing.T) {
	var pairs PropertyBag
	if err := json.Unmarshal([]byte(`[["pipe_size","2\""],["facing","ASJ"]]`), &pairs); err != nil {
		t.Fatalf("unmarshal pairs: %v", err)
	}
	if v, ok := pairs.Get("facing"); !ok || v != "ASJ" {
		t.Fatalf("pairs: facing=%v ok=%v", v, ok)
	}

	var objs PropertyBag
	if err := json.Unmarshal([]byte(`[{"key":"gauge","value":22}]`), &objs); err != nil {
		t.Fatalf("unmarshal objects: %v", err)
	}
	if v, ok := objs.Get("gauge"); !ok || v != 22.0 {
		t.Fatalf("objects: gauge=%v ok=%v", v, ok)
	}

	if err := json.Unmarshal([]byte(`"nope"`), &objs); err == nil {
		t.Fatalf("expected error for scalar input")
	}
}

func TestPropertyBagSetOverwritesInPlace(t *testing.T) {
	b := NewPropertyBag(map[string]any{"b": 1, "a": 2})
	b.Set("b", 3)
	b.Set("c", 4)
	if got := b.Keys(); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected keys: %v", got)
	}
	if v, _ := b.Get("b"); v != 3 {
		t.Fatalf("b=%v, want 3", v)
	}
}

func TestPropertyBagScanValue(t *testing.T) {
	b := PropertyBag{{Key: "width", Value: "12\""}}
	v, err := b.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var back PropertyBag
	if err := back.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got, _ := back.Get("width"); got != "12\"" {
		t.Fatalf("width=%v", got)
	}
	var empty PropertyBag
	if v, _ := empty.Value(); v != "{}" {
		t.Fatalf("nil bag should store {}, got %v", v)
	}
	if err := back.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}
