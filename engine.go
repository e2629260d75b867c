package asrank

// Result bundles everything a caller needs after a full inference run:
// the populated Data, its rank order, and the clique used (whether
// supplied or derived).
type Result struct {
	Data   *Data
	ByRank []AS
	Clique map[AS]struct{}
}

// Run executes the full pipeline of spec.md §2: ingest every path
// file (filtering ixp, validating against clique), preload any given
// relationships, seed the clique, compute transit degrees and rank,
// run the seven inference phases, and return the result ready for
// Emit. If clique is nil, it is first derived from the same paths via
// ComputeClique.
func Run(pathFiles, relFiles []string, ixp, clique map[AS]struct{}) *Result {
	if clique == nil {
		clique = ComputeClique(pathFiles, ixp)
	}

	data := NewData()
	IngestPathFiles(data, pathFiles, ixp, clique)
	for _, f := range relFiles {
		applyRelationships(data, LoadRelationships(f))
	}
	SeedClique(data, clique)
	ComputeTransitDegrees(data)
	byRank := ComputeRanks(data)

	Infer(data, byRank, clique)

	return &Result{Data: data, ByRank: byRank, Clique: clique}
}
