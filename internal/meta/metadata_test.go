package meta

import (
	"encoding/json"
	"testing"
)

func TestValidationLimits(t *testing.T) {
	// too many pairs
	pairs := make(map[string]string)
	for i := 0; i < MaxPairs+1; i++ {
		pairs[string('a'+byte(i%26))+"k"+string('0'+byte(i/26))] = "v"
	}
	metaMap := New(pairs)
	if err := metaMap.Validate(); err == nil {
		t.Fatalf("expected too many pairs")
	}
	// key too long
	longKey := make([]byte, MaxKeyLen+1)
	for i := range longKey {
		longKey[i] = 'k'
	}
	metaMap = New(map[string]string{string(longKey): "v"})
	if err := metaMap.Validate(); err == nil {
		t.Fatalf("expected key too long")
	}
	// value too long
	longVal := make([]byte, MaxValLen+1)
	for i := range longVal {
		longVal[i] = 'v'
	}
	metaMap = New(map[string]string{"k": string(longVal)})
	if err := metaMap.Validate(); err == nil {
		t.Fatalf("expected value too long")
	}
	// valid map passes
	metaMap = New(map[string]string{"fournisseur": "Marché Sandaga"})
	if err := metaMap.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestStableJSONAndRoundtrip(t *testing.T) {
	metaMap := New(map[string]string{"b": "2", "a": "1"})
	b1, _ := metaMap.MarshalStableJSON()
	if string(b1) != `{"a":"1","b":"2"}` {
		t.Fatalf("unexpected stable json: %s", string(b1))
	}
	var unmarshaled Metadata
	if err := json.Unmarshal(b1, &unmarshaled); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := unmarshaled.Validate(); err != nil {
		t.Fatalf("validate roundtrip: %v", err)
	}
	if v, ok := unmarshaled.Get("a"); !ok || v != "1" {
		t.Fatalf("get after roundtrip: %q %v", v, ok)
	}
}

func TestNullUnmarshal(t *testing.T) {
	var m Metadata
	if err := m.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %+v", m)
	}
}
