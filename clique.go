package asrank

// adjacent reports whether a directed link record exists between a
// and b in the observed graph (regardless of its relationship value).
func adjacent(data *Data, a, b AS) bool {
	ad := data.Get(a)
	if ad == nil {
		return false
	}
	_, ok := ad.Neighbors[b]
	return ok
}

// FindClique derives the Tier-1 clique when the caller supplies no
// seed (spec.md §4.5). It expects a throwaway Data already ingested
// from the same paths and ixp set, with no seed clique and ranking
// already computed.
func FindClique(data *Data, asByRank []AS) map[AS]struct{} {
	top := asByRank
	if len(top) > 10 {
		top = top[:10]
	}

	var best []AS
	for mask := 0; mask < (1 << len(top)); mask++ {
		var candidate []AS
		for e := 0; e < len(top); e++ {
			if mask&(1<<e) != 0 {
				candidate = append(candidate, top[e])
			}
		}
		if len(candidate) <= len(best) {
			continue
		}
		if allAdjacent(data, candidate) {
			best = candidate
		}
	}

	clique := make(map[AS]struct{}, len(best))
	for _, as := range best {
		clique[as] = struct{}{}
	}

	// Greedy extension: walk the remaining ASes in rank order, adding
	// any AS adjacent to every current clique member.
	for i := 10; i < len(asByRank); i++ {
		candidate := asByRank[i]
		addable := true
		for member := range clique {
			if !adjacent(data, candidate, member) {
				addable = false
				break
			}
		}
		if addable {
			clique[candidate] = struct{}{}
		}
	}

	return clique
}

func allAdjacent(data *Data, candidates []AS) bool {
	for i := 0; i < len(candidates); i++ {
		for j := 0; j < i; j++ {
			if !adjacent(data, candidates[i], candidates[j]) {
				return false
			}
		}
	}
	return true
}

// ComputeClique builds a fresh, throwaway Data from the same path
// files and ixp set (but no clique seed), ranks it, and derives the
// Tier-1 clique from it. The transient Data is released (eligible for
// GC) once this function returns — spec.md §5.
func ComputeClique(pathFiles []string, ixp map[AS]struct{}) map[AS]struct{} {
	data := NewData()
	IngestPathFiles(data, pathFiles, ixp, nil)
	ComputeTransitDegrees(data)
	asByRank := ComputeRanks(data)
	return FindClique(data, asByRank)
}
