package layer

import (
	"sort"
	"testing"
)

func TestSource_String(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{SourceDefault, "default"},
		{SourceFile, "file"},
		{SourceEnv, "env"},
		{SourceOverride, "override"},
		{Source(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("Source(%d).String() = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestStack_WalkPrecedence(t *testing.T) {
	s := NewStack()
	s.Put(SourceDefault, "k", "default")
	s.Put(SourceFile, "k", "file")
	s.Put(SourceOverride, "k", "override")

	var seen []Source
	s.Walk("k", func(src Source, v any) bool {
		seen = append(seen, src)
		return true
	})

	want := []Source{SourceOverride, SourceFile, SourceDefault}
	if len(seen) != len(want) {
		t.Fatalf("Walk visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Walk[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestStack_WalkStops(t *testing.T) {
	s := NewStack()
	s.Put(SourceDefault, "k", 1)
	s.Put(SourceEnv, "k", 2)

	calls := 0
	s.Walk("k", func(Source, any) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("Walk continued after false: %d calls", calls)
	}
}

func TestStack_ReplaceAndDelete(t *testing.T) {
	s := NewStack()
	s.Put(SourceFile, "old", true)

	prev := s.Replace(NewWithData(SourceFile, "/tmp/p.toml", map[string]any{"new": 1}))
	if _, ok := prev.Data["old"]; !ok {
		t.Error("Replace did not return the previous layer")
	}

	got := s.Layer(SourceFile)
	if got.Path != "/tmp/p.toml" || got.Data["new"] != 1 {
		t.Errorf("Layer(SourceFile) = %+v", got)
	}

	got.Data["mutated"] = true
	if _, ok := s.Layer(SourceFile).Data["mutated"]; ok {
		t.Error("Layer returned shared data")
	}

	if !s.Delete(SourceFile, "new") {
		t.Error("Delete of present key returned false")
	}
	if s.Delete(SourceFile, "new") {
		t.Error("Delete of missing key returned true")
	}
}

func TestStack_Keys(t *testing.T) {
	s := NewStack()
	s.Put(SourceDefault, "a", 1)
	s.Put(SourceEnv, "b", 2)
	s.Put(SourceOverride, "a", 3)

	keys := s.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
}
