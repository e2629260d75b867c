package asrank

import (
	"container/heap"
	"sort"
)

// SeedClique marks every member of clique as InClique and meshes the
// clique together with P2P links, in ascending AS order (spec.md
// §4.3). It is the first mutation run against data once ranking
// inputs (paths, preloaded relationships) are in place, and it must
// run before ComputeRanks, which reads InClique.
func SeedClique(data *Data, clique map[AS]struct{}) {
	members := sortedFromSet(clique)

	for _, c := range members {
		data.Ensure(c).InClique = true
	}
	for i := range members {
		for j := 0; j < i; j++ {
			data.setRelationship(members[i], members[j], P2P)
		}
	}
}

// topDown drains a worklist of candidate P2C edges (provider, customer)
// pairs, assigning each with setRelationship and, on success, scanning
// the just-set link's triplets for further edges it unlocks (spec.md
// §4.6). The worklist is consumed in arbitrary order: topDown's result
// does not depend on pop order, since every edge it can ever assign is
// independent of when it's tried.
func topDown(data *Data, candidates map[[2]AS]struct{}) {
	for len(candidates) > 0 {
		var edge [2]AS
		for e := range candidates {
			edge = e
			break
		}
		delete(candidates, edge)

		x, y := edge[0], edge[1]
		if !data.setRelationship(x, y, P2C) {
			continue
		}

		dy := data.Get(y)
		linkXY := data.Get(x).Neighbors[y]
		for z, t := range linkXY.Triplets {
			dz := data.Get(z)
			if dy.Rank >= dz.Rank {
				continue
			}
			lzy := dz.Neighbors[y]
			if lzy == nil {
				continue
			}
			if ty := lzy.Triplets[x]; ty != nil && ty.Upstream {
				candidates[[2]AS{y, z}] = struct{}{}
			}
			_ = t
		}
	}
}

// phase1AddUpstreamProviderLinks: for each non-clique AS z, taken in
// ascending rank order, look at each neighbor y that is no less
// important than z (rank(y) <= rank(z)) whose link is still Unknown.
// If some third AS x shows y already has an established upstream
// (directly, or via a well-observed peering), assign y as z's
// provider.
func phase1AddUpstreamProviderLinks(data *Data, asByRank []AS) {
	for _, z := range asByRank {
		dz := data.Get(z)
		if dz.InClique {
			continue
		}
		for _, y := range sortedNeighbors(dz) {
			link := dz.Neighbors[y]
			dy := data.Get(y)
			if dy.Rank > dz.Rank || link.Relationship != Unknown {
				continue
			}
			for _, x := range sortedTriplets(link) {
				triplet := link.Triplets[x]
				t := Unknown
				if lxy := data.Get(x).Neighbors[y]; lxy != nil {
					t = lxy.Relationship
				}
				if (t == P2C && triplet.Upstream) || (t == P2P && (triplet.Upstream || triplet.Count > 2)) {
					data.setRelationship(y, z, P2C)
					break
				}
			}
		}
	}
}

// phase2FindClientStubsSeenFromPartialVP: an AS v with a small visible
// cone (fewer than 1/50th of all known ASes) is a "partial vantage
// point". Any third AS z it observed as the tail of an exact two-edge
// path v-y-z, where z never transits traffic, is set as y's customer.
func phase2FindClientStubsSeenFromPartialVP(data *Data) {
	n := data.Len()
	for _, v := range data.ASNumbers() {
		dv := data.Get(v)
		if len(dv.VisibilityAsVP)*50 >= n {
			continue
		}
		for _, y := range sortedNeighbors(dv) {
			link := dv.Neighbors[y]
			for _, z := range sortedTriplets(link) {
				triplet := link.Triplets[z]
				if triplet.TwoEdgePath && data.Get(z).TransitDegree == 0 {
					data.setRelationship(y, z, P2C)
				}
			}
		}
	}
}

type p3Candidate struct {
	z, y, x AS
	count   uint16
	seq     int
}

// p3Queue is a max-heap ordered by count, breaking ties by most
// recently inserted first — matching the iteration order of the
// original C++ std::multimap<count, Triplet>, whose --end() visits the
// greatest key and, within a run of equal keys, the last-inserted
// element.
type p3Queue []*p3Candidate

func (q p3Queue) Len() int { return len(q) }
func (q p3Queue) Less(i, j int) bool {
	if q[i].count != q[j].count {
		return q[i].count > q[j].count
	}
	return q[i].seq > q[j].seq
}
func (q p3Queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *p3Queue) Push(x interface{}) { *q = append(*q, x.(*p3Candidate)) }
func (q *p3Queue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// phase3AddLinksToSmallerProviders builds a candidate set of
// (z, y, x) triples where z's link to y is Unknown, z is no less
// important than y (rank(z) <= rank(y)), and x is an
// already-established provider of y
// seen at the end of an observed path through z-y-x. Candidates drain
// in descending observation count (ties broken LIFO); entries with
// count <= 2 are discarded. Each surviving candidate tries to set
// (y, z) to P2C, and on success looks for further links it unlocks,
// feeding a top-down worklist or re-queuing as appropriate.
func phase3AddLinksToSmallerProviders(data *Data) {
	q := &p3Queue{}
	seq := 0
	push := func(z, y, x AS, count uint16) {
		seq++
		heap.Push(q, &p3Candidate{z: z, y: y, x: x, count: count, seq: seq})
	}

	for _, z := range data.ASNumbers() {
		dz := data.Get(z)
		for _, y := range sortedNeighbors(dz) {
			dy := data.Get(y)
			link := dz.Neighbors[y]
			if dz.Rank > dy.Rank || link.Relationship != Unknown {
				continue
			}
			for _, x := range sortedTriplets(link) {
				triplet := link.Triplets[x]
				if !triplet.EndOfPath {
					continue
				}
				lyx := dy.Neighbors[x]
				if lyx == nil || lyx.Relationship != C2P {
					continue
				}
				push(z, y, x, triplet.Count)
			}
		}
	}

	for q.Len() > 0 {
		c := heap.Pop(q).(*p3Candidate)
		if c.count <= 2 {
			continue
		}
		if !data.setRelationship(c.y, c.z, P2C) {
			continue
		}

		dz := data.Get(c.z)
		linkYZ := data.Get(c.y).Neighbors[c.z]
		nextInLine := make(map[[2]AS]struct{})
		for _, i := range sortedTriplets(linkYZ) {
			linkIZ := data.Get(i).Neighbors[c.z]
			if linkIZ == nil || linkIZ.Relationship != Unknown {
				continue
			}
			if data.Get(i).Rank > dz.Rank {
				nextInLine[[2]AS{c.y, c.z}] = struct{}{}
			} else if t := linkIZ.Triplets[c.y]; t != nil && t.EndOfPath {
				push(i, c.z, c.y, t.Count)
			}
		}
		topDown(data, nextInLine)
	}
}

// phase4BreakTiesWhenNoProvider looks for non-clique ASes with exactly
// one AS in their provider cone (themselves — no provider assigned
// yet) and a transit degree of at least 10: established networks that
// never resolved a provider. Their still-Unknown neighbors that have
// some recorded third-AS observation are declared peers, in ascending
// rank order, and each assignment seeds a top-down pass from every
// third AS recorded on that link.
func phase4BreakTiesWhenNoProvider(data *Data, asByRank []AS) {
	for _, x := range asByRank {
		dx := data.Get(x)
		if len(dx.ProviderCone) != 1 || dx.InClique || dx.TransitDegree < 10 {
			continue
		}

		var neighbors []AS
		for _, y := range sortedNeighbors(dx) {
			dy := data.Get(y)
			linkYX := dy.Neighbors[x]
			linkXY := dx.Neighbors[y]
			if linkYX != nil && len(linkYX.Triplets) != 0 && linkXY.Relationship == Unknown {
				neighbors = append(neighbors, y)
			}
		}
		sort.Slice(neighbors, func(i, j int) bool {
			return data.Get(neighbors[i]).Rank < data.Get(neighbors[j]).Rank
		})

		for _, y := range neighbors {
			linkXY := dx.Neighbors[y]
			data.setRelationship(x, y, P2P)

			nextInLine := make(map[[2]AS]struct{})
			for w := range linkXY.Triplets {
				nextInLine[[2]AS{y, w}] = struct{}{}
			}
			topDown(data, nextInLine)
		}
	}
}

// phase5SetCliqueStubLinksAsP2C: every clique member is the provider of
// any neighbor that never transits traffic.
func phase5SetCliqueStubLinksAsP2C(data *Data, clique map[AS]struct{}) {
	for _, c := range sortedFromSet(clique) {
		dc := data.Get(c)
		if dc == nil {
			continue
		}
		for _, s := range sortedNeighbors(dc) {
			if data.Get(s).TransitDegree == 0 {
				data.setRelationship(c, s, P2C)
			}
		}
	}
}

func sortedTransitPairs(ad *ASData) [][2]AS {
	out := make([][2]AS, 0, len(ad.TransitPairs))
	for p := range ad.TransitPairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// phase6BreakRemainingTies revisits every transiting AS y's recorded
// (u, v) transit pairs. A pair is dropped if any third AS observed on
// link(u,y) already sits in y's provider cone (u would become a
// provider of something already upstream of y). Among what survives,
// a pair is further dropped if its second element appears as some
// other pair's first element, or its first element appears as some
// other pair's second element — y cannot be simultaneously upstream
// and downstream of the same AS. What remains seeds a top-down pass
// toward every v with a lower rank than y (i.e. less important).
func phase6BreakRemainingTies(data *Data, asByRank []AS) {
	for _, y := range asByRank {
		dy := data.Get(y)
		if dy.TransitDegree == 0 {
			continue
		}

		var survivors [][2]AS
		upstream := make(map[AS]struct{})
		downstream := make(map[AS]struct{})

		for _, p := range sortedTransitPairs(dy) {
			u, v := p[0], p[1]
			linkUY := data.Get(u).Neighbors[y]
			skip := false
			if linkUY != nil {
				for w := range linkUY.Triplets {
					if _, in := dy.ProviderCone[w]; in {
						skip = true
						break
					}
				}
			}
			if skip {
				continue
			}
			survivors = append(survivors, p)
			upstream[u] = struct{}{}
			downstream[v] = struct{}{}
		}

		nextInLine := make(map[[2]AS]struct{})
		for _, p := range survivors {
			u, v := p[0], p[1]
			if _, in := upstream[v]; in {
				continue
			}
			if _, in := downstream[u]; in {
				continue
			}
			if dy.Rank < data.Get(v).Rank {
				nextInLine[[2]AS{y, v}] = struct{}{}
			}
		}
		topDown(data, nextInLine)
	}
}

// phase7CompleteWithP2PLinks assigns P2P to every link still Unknown
// after the previous six phases (spec.md §4.6 closing rule).
func phase7CompleteWithP2PLinks(data *Data) {
	for _, a := range data.ASNumbers() {
		da := data.Get(a)
		for _, b := range sortedNeighbors(da) {
			data.setRelationship(a, b, P2P)
		}
	}
}

// Infer runs all seven inference phases against data in order
// (spec.md §4.6). asByRank and clique must be the same values used to
// build data (ComputeRanks' return value and the clique passed to
// SeedClique).
func Infer(data *Data, asByRank []AS, clique map[AS]struct{}) {
	phase1AddUpstreamProviderLinks(data, asByRank)
	phase2FindClientStubsSeenFromPartialVP(data)
	phase3AddLinksToSmallerProviders(data)
	phase4BreakTiesWhenNoProvider(data, asByRank)
	phase5SetCliqueStubLinksAsP2C(data, clique)
	phase6BreakRemainingTies(data, asByRank)
	phase7CompleteWithP2PLinks(data)
}
