package region

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssignAndMergeLeaveInputsAlone(t *testing.T) {
	base := map[string]any{"o": map[string]any{"x": 1}, "s": "a"}
	overlay := map[string]any{"o": map[string]any{"y": 2}, "t": "b"}
	baseCopy := cloneObject(base)
	overlayCopy := cloneObject(overlay)

	gotAssign := assign(base, overlay)
	gotMerge := merge(base, overlay)

	if diff := cmp.Diff(baseCopy, base); diff != "" {
		t.Errorf("base mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(overlayCopy, overlay); diff != "" {
		t.Errorf("overlay mutated (-want +got):\n%s", diff)
	}

	wantAssign := map[string]any{"o": map[string]any{"y": 2}, "s": "a", "t": "b"}
	if diff := cmp.Diff(wantAssign, gotAssign); diff != "" {
		t.Errorf("assign() mismatch (-want +got):\n%s", diff)
	}
	wantMerge := map[string]any{"o": map[string]any{"x": 1, "y": 2}, "s": "a", "t": "b"}
	if diff := cmp.Diff(wantMerge, gotMerge); diff != "" {
		t.Errorf("merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNilBase(t *testing.T) {
	got := merge(nil, map[string]any{"a": map[string]any{"b": true}})
	want := map[string]any{"a": map[string]any{"b": true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge(nil) mismatch (-want +got):\n%s", diff)
	}
}
