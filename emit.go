package asrank

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Emit writes the inferred relationship graph in the CAIDA a|b|r
// format: a header reporting the visible AS count and clique members,
// followed by one line per undirected link (a < b) carrying its
// inferred relationship code (spec.md §6, grounded on the original
// printGraph).
func Emit(w io.Writer, data *Data, clique map[AS]struct{}) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d visible AS\n", data.Len())

	bw.WriteString("# Clique :")
	for _, c := range sortedFromSet(clique) {
		fmt.Fprintf(bw, " %d", c)
	}
	bw.WriteByte('\n')

	for _, a := range data.ASNumbers() {
		da := data.Get(a)
		for _, b := range sortedNeighbors(da) {
			if a >= b {
				continue
			}
			fmt.Fprintf(bw, "%d|%d|%d\n", a, b, da.Neighbors[b].Relationship)
		}
	}

	return bw.Flush()
}

// sortedFromSet returns the members of set in ascending AS order.
func sortedFromSet(set map[AS]struct{}) []AS {
	out := make([]AS, 0, len(set))
	for as := range set {
		out = append(out, as)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
