package asrank

// TripletData summarises every path observation involving the ordered
// triple x -> y -> z, stored at Data's triplet level as
// link(x,y).triplets[z].
type TripletData struct {
	// Upstream is true once some observed path contained the reverse
	// ordering z y x (z is upstream of x through y).
	Upstream bool
	// EndOfPath is true once some observed path ended with ... z y x.
	EndOfPath bool
	// TwoEdgePath is true if the entire observed path was exactly x y z.
	TwoEdgePath bool
	// Count is the number of observed paths containing this triple,
	// saturating at the 16-bit ceiling.
	Count uint16
}

const maxTripletCount = ^uint16(0)

// incr bumps Count by one, saturating instead of wrapping.
func (t *TripletData) incr() {
	if t.Count < maxTripletCount {
		t.Count++
	}
}

// LinkData summarises everything observed about the directed link
// x -> y: the triplets third ASes form with it, whether x transits
// traffic toward y, and the inferred relationship of the link.
type LinkData struct {
	// Triplets maps the third AS z to the TripletData of (x, y, z) for
	// whichever x, y this LinkData belongs to (Data's link-level map).
	Triplets map[AS]*TripletData
	// Transit is true if some observed path shows z x y ... i.e. x
	// transited traffic toward y.
	Transit bool
	// Relationship is the current inference state of this directed link.
	Relationship TypeOfRelationship
}

func newLinkData() *LinkData {
	return &LinkData{
		Triplets:     make(map[AS]*TripletData),
		Relationship: Unknown,
	}
}

// triplet returns (creating if absent) the TripletData for third AS z.
func (l *LinkData) triplet(z AS) *TripletData {
	t, ok := l.Triplets[z]
	if !ok {
		t = &TripletData{}
		l.Triplets[z] = t
	}
	return t
}

// ASData carries every per-AS aggregate the engine maintains: its
// neighbor links, its customer/provider cones, its VP visibility set,
// its transit pairs, and the derived rank/clique/transit-degree fields.
type ASData struct {
	// Neighbors maps a neighbor AS y to the LinkData of link x -> y.
	Neighbors map[AS]*LinkData

	// CustomerCone is the set of ASes reachable via chains of P2C hops
	// from this AS, always including this AS itself.
	CustomerCone map[AS]struct{}
	// ProviderCone is the symmetric closure upward through C2P hops,
	// always including this AS itself.
	ProviderCone map[AS]struct{}
	// VisibilityAsVP is the set of ASes this AS announces a route to,
	// observed whenever this AS is the first hop (vantage point) of a
	// path.
	VisibilityAsVP map[AS]struct{}
	// TransitPairs is the set of ordered pairs (u, v) such that some
	// observed path contains u x v.
	TransitPairs map[[2]AS]struct{}

	// TransitDegree is the number of neighbors y for which link(x,y)
	// .Transit is true.
	TransitDegree int
	// Rank is this AS's 1-based position in the total order (§4.4).
	Rank int
	// InClique records Tier-1 clique membership.
	InClique bool
}

// newASData builds the ASData for self, with both cones seeded
// reflexively (self belongs to its own customer and provider cone from
// the start). Seeding reflexivity at construction, rather than in a
// separate pass after clique/relationship preloads as the original
// implementation does it, keeps setRelationship's cycle check and cone
// propagation correct from the very first call, including during
// relationship preload — see DESIGN.md.
func newASData(self AS) *ASData {
	return &ASData{
		Neighbors:      make(map[AS]*LinkData),
		CustomerCone:   map[AS]struct{}{self: {}},
		ProviderCone:   map[AS]struct{}{self: {}},
		VisibilityAsVP: make(map[AS]struct{}),
		TransitPairs:   make(map[[2]AS]struct{}),
	}
}

// neighbor returns (creating if absent) the LinkData of link x -> y.
func (d *ASData) neighbor(y AS) *LinkData {
	l, ok := d.Neighbors[y]
	if !ok {
		l = newLinkData()
		d.Neighbors[y] = l
	}
	return l
}
