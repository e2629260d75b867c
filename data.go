package asrank

import "sort"

// Data is the engine's central container: per-AS aggregates indexed by
// a dense id assigned on first sight (spec.md §9's redesign flag).
// The rank order asByRank is not stored here: ComputeRanks returns it
// and writes each AS's position into ASData.Rank.
//
// Data owns every ASData, LinkData and TripletData record it holds;
// nothing is ever deleted from it, and after ingest + initialization
// only ASData.Neighbors[*].Relationship and the two cone sets are
// mutated (by setRelationship), monotonically, until emission.
type Data struct {
	ids    map[AS]uint32
	byID   []AS
	asdata []*ASData
}

// NewData creates an empty Data container. Use Ensure to register ASes
// as they are first seen during ingest.
func NewData() *Data {
	return &Data{ids: make(map[AS]uint32)}
}

// Len returns the number of distinct ASes known to Data.
func (d *Data) Len() int { return len(d.byID) }

// Has reports whether as has been seen.
func (d *Data) Has(as AS) bool {
	_, ok := d.ids[as]
	return ok
}

// Ensure returns the ASData for as, creating and registering it (with
// a freshly assigned dense id) if this is the first time as is seen.
func (d *Data) Ensure(as AS) *ASData {
	if id, ok := d.ids[as]; ok {
		return d.asdata[id]
	}
	id := uint32(len(d.byID))
	d.ids[as] = id
	d.byID = append(d.byID, as)
	d.asdata = append(d.asdata, newASData(as))
	return d.asdata[id]
}

// Get returns the ASData for as, or nil if as has never been seen.
func (d *Data) Get(as AS) *ASData {
	id, ok := d.ids[as]
	if !ok {
		return nil
	}
	return d.asdata[id]
}

// ASNumbers returns every known AS, in ascending numeric order. Used
// wherever a phase must iterate "by AS in ascending order" to stay
// deterministic regardless of Go's randomized map iteration.
func (d *Data) ASNumbers() []AS {
	out := make([]AS, len(d.byID))
	copy(out, d.byID)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedNeighbors returns the neighbors of ad, in ascending AS order.
func sortedNeighbors(ad *ASData) []AS {
	out := make([]AS, 0, len(ad.Neighbors))
	for y := range ad.Neighbors {
		out = append(out, y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedTriplets returns the third ASes of a link's triplets, in
// ascending AS order.
func sortedTriplets(l *LinkData) []AS {
	out := make([]AS, 0, len(l.Triplets))
	for z := range l.Triplets {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// setRelationship assigns t to the (a, b) link. It returns false if the
// link already carries a non-Unknown relationship, or if assigning a
// P2C/C2P edge would close a cycle between the two ASes' cones; no
// relationship or cone changes then, but an Unknown a -> b link record
// is created if none existed. Both a and b must already be known to
// Data. This is the single path by which Relationship, CustomerCone
// and ProviderCone are ever mutated after initialization (spec.md
// §4.2).
func (d *Data) setRelationship(a, b AS, t TypeOfRelationship) bool {
	da, db := d.Get(a), d.Get(b)
	if da == nil || db == nil {
		return false
	}

	if da.neighbor(b).Relationship != Unknown {
		return false
	}

	if t != P2C && t != C2P {
		da.neighbor(b).Relationship = t
		db.neighbor(a).Relationship = t
		return true
	}

	// Normalize to P2C with a as provider, b as customer.
	if t == C2P {
		a, b = b, a
		da, db = db, da
	}

	if _, cycle := da.ProviderCone[b]; cycle {
		return false
	}

	da.neighbor(b).Relationship = P2C
	db.neighbor(a).Relationship = C2P

	// Cone propagation: every provider of a gains every customer of b
	// as a customer; every customer of b gains every provider of a as
	// a provider. Cones are reflexive, so a and b are included.
	for p := range da.ProviderCone {
		dp := d.Get(p)
		for c := range db.CustomerCone {
			dp.CustomerCone[c] = struct{}{}
		}
	}
	for c := range db.CustomerCone {
		dc := d.Get(c)
		for p := range da.ProviderCone {
			dc.ProviderCone[p] = struct{}{}
		}
	}

	return true
}
