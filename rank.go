package asrank

import "sort"

// ComputeTransitDegrees fills in ASData.TransitDegree for every known
// AS: the number of neighbors whose link carries transit traffic
// (spec.md §4.4 step 1).
func ComputeTransitDegrees(data *Data) {
	for _, as := range data.byID {
		ad := data.Get(as)
		degree := 0
		for _, link := range ad.Neighbors {
			if link.Transit {
				degree++
			}
		}
		ad.TransitDegree = degree
	}
}

// ComputeRanks produces the total order of spec.md §4.4: clique
// members first, then larger transit degree, then larger neighbor
// count, then smaller AS number — and writes each AS's 1-based
// position into ASData.Rank. It returns the resulting asByRank slice.
func ComputeRanks(data *Data) []AS {
	asByRank := make([]AS, len(data.byID))
	copy(asByRank, data.byID)

	less := func(i, j int) bool {
		a, b := asByRank[i], asByRank[j]
		da, db := data.Get(a), data.Get(b)

		if da.InClique != db.InClique {
			return da.InClique
		}
		if da.TransitDegree != db.TransitDegree {
			return da.TransitDegree > db.TransitDegree
		}
		if len(da.Neighbors) != len(db.Neighbors) {
			return len(da.Neighbors) > len(db.Neighbors)
		}
		return a < b
	}
	sort.Slice(asByRank, less)

	for i, as := range asByRank {
		data.Get(as).Rank = i + 1
	}
	return asByRank
}
