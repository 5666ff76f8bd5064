package detour_crowd

import (
	"slices"
	"testing"

	"github.com/gorustyt/navtile/detour"
)

type mergeFunc func(path []detour.DtPolyRef, npath, maxPath int, visited []detour.DtPolyRef, nvisited int) int

func refs(ids ...detour.DtPolyRef) []detour.DtPolyRef { return ids }

func withCap(ids []detour.DtPolyRef, capacity int) []detour.DtPolyRef {
	out := make([]detour.DtPolyRef, capacity)
	copy(out, ids)
	return out
}

func hasAdjacentDuplicate(path []detour.DtPolyRef) bool {
	for i := 1; i < len(path); i++ {
		if path[i] == path[i-1] {
			return true
		}
	}
	return false
}

func TestMergeCorridor(t *testing.T) {
	tests := []struct {
		name    string
		merge   mergeFunc
		path    []detour.DtPolyRef
		maxPath int
		visited []detour.DtPolyRef
		want    []detour.DtPolyRef
	}{
		{"start moved forward", DtMergeCorridorStartMoved, refs(1, 2, 3, 4, 5), 10, refs(1, 6, 3), refs(3, 4, 5)},
		{"start moved off path", DtMergeCorridorStartMoved, refs(1, 2, 3, 4), 10, refs(1, 9), refs(9, 1, 2, 3, 4)},
		{"start moved in place", DtMergeCorridorStartMoved, refs(1, 2, 3), 10, refs(1), refs(1, 2, 3)},
		{"start moved truncates visited", DtMergeCorridorStartMoved, refs(1, 2, 3, 4), 4, refs(1, 9, 8), refs(1, 2, 3, 4)},
		{"start moved keeps splice side", DtMergeCorridorStartMoved, refs(1, 2, 3, 4), 5, refs(1, 9, 8), refs(9, 1, 2, 3, 4)},
		{"start moved clips long path", DtMergeCorridorStartMoved, refs(1, 2, 3, 4), 2, refs(1, 9), refs(2, 3)},
		{"end moved", DtMergeCorridorEndMoved, refs(1, 2, 3), 10, refs(3, 7, 8), refs(1, 2, 3, 7, 8)},
		{"end moved back", DtMergeCorridorEndMoved, refs(1, 2, 3), 10, refs(2), refs(1, 2)},
		{"end moved truncates visited", DtMergeCorridorEndMoved, refs(1, 2, 3), 4, refs(3, 7, 8), refs(1, 2, 3, 7)},
		{"shortcut", DtMergeCorridorStartShortcut, refs(1, 2, 3, 4, 5, 6), 10, refs(1, 9, 5), refs(1, 9, 5, 6)},
		{"shortcut truncates visited", DtMergeCorridorStartShortcut, refs(1, 2, 3, 4, 5, 6), 3, refs(1, 9, 5), refs(9, 5, 6)},
		{"shortcut at visited start", DtMergeCorridorStartShortcut, refs(1, 2, 3, 4, 5, 6), 10, refs(5, 9), refs(1, 2, 3, 4, 5, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := withCap(tt.path, 16)
			n := tt.merge(path, len(tt.path), tt.maxPath, tt.visited, len(tt.visited))
			if n > tt.maxPath {
				t.Errorf("length %d exceeds maxPath %d", n, tt.maxPath)
			}
			if !slices.Equal(path[:n], tt.want) {
				t.Errorf("path = %v, want %v", path[:n], tt.want)
			}
			if hasAdjacentDuplicate(path[:n]) {
				t.Errorf("path %v repeats a polygon at the splice", path[:n])
			}
		})
	}
}

func TestMergeCorridorNoCommonPolygon(t *testing.T) {
	merges := map[string]mergeFunc{
		"start moved": DtMergeCorridorStartMoved,
		"end moved":   DtMergeCorridorEndMoved,
		"shortcut":    DtMergeCorridorStartShortcut,
	}
	for name, merge := range merges {
		orig := refs(1, 2, 3, 4)
		path := withCap(orig, 8)
		n := merge(path, len(orig), 8, refs(7, 8, 9), 3)
		if n != len(orig) || !slices.Equal(path[:n], orig) {
			t.Errorf("%s: path = %v (len %d), want it untouched", name, path[:n], n)
		}
		if n := merge(path, len(orig), 8, nil, 0); n != len(orig) {
			t.Errorf("%s: empty visited changed the length to %d", name, n)
		}
	}
}

func TestMergeCorridorRespectsBuffer(t *testing.T) {
	// maxPath larger than the buffer is clamped to it.
	path := withCap(refs(1, 2, 3), 4)
	n := DtMergeCorridorEndMoved(path, 3, 100, refs(3, 4, 5, 6), 4)
	if n != 4 || !slices.Equal(path, refs(1, 2, 3, 4)) {
		t.Errorf("path = %v (len %d)", path[:n], n)
	}
}
