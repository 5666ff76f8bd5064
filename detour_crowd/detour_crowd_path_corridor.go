package detour_crowd

import (
	"github.com/gorustyt/navtile/detour"
)

// findFurthestCommon returns the first path index, scanning from the end
// when fromEnd is set and from the start otherwise, that also appears in
// visited, together with the lowest visited index holding it. Both are -1
// when the lists share nothing.
func findFurthestCommon(path []detour.DtPolyRef, npath int, visited []detour.DtPolyRef, nvisited int, fromEnd bool) (furthestPath, furthestVisited int) {
	furthestPath = -1
	furthestVisited = -1
	for k := 0; k < npath; k++ {
		i := k
		if fromEnd {
			i = npath - 1 - k
		}
		found := false
		for j := nvisited - 1; j >= 0; j-- {
			if path[i] == visited[j] {
				furthestPath = i
				furthestVisited = j
				found = true
			}
		}
		if found {
			break
		}
	}
	return furthestPath, furthestVisited
}

// clampPath bounds the path counts by what the buffers actually hold.
func clampPath(path []detour.DtPolyRef, npath, maxPath int, visited []detour.DtPolyRef, nvisited int) (int, int, int) {
	maxPath = max(0, min(maxPath, len(path)))
	npath = max(0, min(npath, len(path)))
	nvisited = max(0, min(nvisited, len(visited)))
	return npath, maxPath, nvisited
}

// DtMergeCorridorStartMoved splices the polygons visited while the start
// of the corridor moved onto the front of path and returns the new length.
// visited runs from the old start to the new one. path is left untouched
// when the two share no polygon.
//
// When the result would exceed maxPath the visited polygons furthest from
// the splice are dropped first.
func DtMergeCorridorStartMoved(path []detour.DtPolyRef, npath, maxPath int,
	visited []detour.DtPolyRef, nvisited int) int {
	npath, maxPath, nvisited = clampPath(path, npath, maxPath, visited, nvisited)

	// Find furthest common polygon.
	furthestPath, furthestVisited := findFurthestCommon(path, npath, visited, nvisited, true)

	// If no intersection found just return current path.
	if furthestPath == -1 || furthestVisited == -1 {
		return npath
	}

	// Concatenate paths.

	// Adjust beginning of the buffer to include the visited.
	req := nvisited - furthestVisited
	orig := min(furthestPath+1, npath)
	size := min(max(0, npath-orig), maxPath)
	req = min(req, maxPath-size)

	if size > 0 {
		copy(path[req:req+size], path[orig:orig+size])
	}

	// Store visited, newest first, ending at the common polygon.
	for i := 0; i < req; i++ {
		path[i] = visited[furthestVisited+req-1-i]
	}

	return req + size
}

// DtMergeCorridorEndMoved appends the polygons visited past the common
// polygon to path and returns the new length. The path up to and including
// the common polygon is kept; visited polygons that do not fit are dropped
// from the far end.
func DtMergeCorridorEndMoved(path []detour.DtPolyRef, npath, maxPath int,
	visited []detour.DtPolyRef, nvisited int) int {
	npath, maxPath, nvisited = clampPath(path, npath, maxPath, visited, nvisited)

	// Find furthest common polygon.
	furthestPath, furthestVisited := findFurthestCommon(path, npath, visited, nvisited, false)

	// If no intersection found just return current path.
	if furthestPath == -1 || furthestVisited == -1 {
		return npath
	}

	// Concatenate paths.
	ppos := min(furthestPath+1, maxPath)
	vpos := furthestVisited + 1
	count := max(0, min(nvisited-vpos, maxPath-ppos))
	if count > 0 {
		copy(path[ppos:ppos+count], visited[vpos:vpos+count])
	}

	return ppos + count
}

// DtMergeCorridorStartShortcut replaces the start of path with visited when
// visited reaches a path polygon through a shorter route. A match on the
// first visited polygon is not a shortcut and leaves path untouched.
func DtMergeCorridorStartShortcut(path []detour.DtPolyRef, npath, maxPath int,
	visited []detour.DtPolyRef, nvisited int) int {
	npath, maxPath, nvisited = clampPath(path, npath, maxPath, visited, nvisited)

	// Find furthest common polygon.
	furthestPath, furthestVisited := findFurthestCommon(path, npath, visited, nvisited, true)

	// If no intersection found just return current path.
	if furthestPath == -1 || furthestVisited == -1 {
		return npath
	}

	// Concatenate paths.

	// Adjust beginning of the buffer to include the visited.
	req := furthestVisited
	if req <= 0 {
		return npath
	}

	orig := furthestPath
	size := min(max(0, npath-orig), maxPath)
	req = min(req, maxPath-size)

	if size > 0 {
		copy(path[req:req+size], path[orig:orig+size])
	}

	// Store visited, keeping the polygons leading into the common one.
	for i := 0; i < req; i++ {
		path[i] = visited[furthestVisited-req+i]
	}

	return req + size
}
