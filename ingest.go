package asrank

import (
	"log"
	"strconv"
	"strings"
)

// filterAndCollapse drops every AS in ixp and collapses consecutive
// duplicates in what remains, then re-admits the raw path's final
// token if it differs from the collapsed result's last element. This
// final step is a deliberately preserved quirk (spec.md §4.1 step 1,
// §9): it can re-introduce a trailing IXP as the path's last hop,
// exactly as the legacy implementation does.
func filterAndCollapse(raw []AS, ixp map[AS]struct{}) []AS {
	if len(raw) == 0 {
		return nil
	}
	out := make([]AS, 0, len(raw))
	for _, a := range raw {
		if _, dropped := ixp[a]; dropped {
			continue
		}
		if len(out) == 0 || out[len(out)-1] != a {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return out
	}
	last := raw[len(raw)-1]
	if out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

// validPath applies the validity gate of spec.md §4.1 step 2: length
// >= 2, no AS repeated anywhere in the path, and the clique
// alternation count along the path must not exceed 2.
func validPath(path []AS, clique map[AS]struct{}) bool {
	if len(path) < 2 {
		return false
	}

	visited := make(map[AS]struct{}, len(path))
	alternations := 0
	for _, a := range path {
		visited[a] = struct{}{}
		_, inClique := clique[a]
		want := alternations%2 == 1
		if inClique != want {
			alternations++
		}
	}
	if alternations > 2 {
		return false
	}
	return len(visited) == len(path)
}

// IngestPath applies one already-tokenized AS path to data: filters
// IXPs, validates, and records link/triplet observations (spec.md
// §4.1). It returns false if the path was dropped (too short, a loop,
// or excessive clique alternation).
func IngestPath(data *Data, raw []AS, ixp, clique map[AS]struct{}) bool {
	path := filterAndCollapse(raw, ixp)
	if !validPath(path, clique) {
		return false
	}

	n := len(path)
	a0, a1 := path[0], path[1]
	d0 := data.Ensure(a0)
	d1 := data.Ensure(a1)
	d0.neighbor(a1) // ensure mirrored link records exist
	d1.neighbor(a0)
	d0.VisibilityAsVP[path[n-1]] = struct{}{}

	if n == 2 {
		return true
	}

	for i := 1; i <= n-2; i++ {
		x, y, z := path[i-1], path[i], path[i+1]

		dx := data.Ensure(x)
		dy := data.Ensure(y)
		dz := data.Ensure(z)

		// data.h's convention Data[p][q][r] == link(p,q).triplets[r]:
		// tZYX is triplet x on link z->y; tXYZ is triplet z on link x->y.
		tZYX := dz.neighbor(y).triplet(x)
		tXYZ := dx.neighbor(y).triplet(z)

		tZYX.incr()
		tXYZ.incr()

		if !tZYX.Upstream {
			tZYX.Upstream = true
			dy.neighbor(x).Transit = true
			dy.neighbor(z).Transit = true
			dy.TransitPairs[[2]AS{x, z}] = struct{}{}
		}

		if i == n-2 {
			tZYX.EndOfPath = true
			if n == 3 {
				tXYZ.TwoEdgePath = true
			}
		}
	}
	return true
}

// IngestPathLine tokenizes one path-file line (AS numbers separated by
// ASCII spaces) and ingests it. Malformed tokens cause the whole line
// to be skipped, matching the "ignorable input" class of spec.md §7.
func IngestPathLine(data *Data, line string, ixp, clique map[AS]struct{}) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	path := make([]AS, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return false
		}
		path = append(path, AS(n))
	}
	return IngestPath(data, path, ixp, clique)
}

// IngestPathFile streams one path file into data, one path per line.
// Lines containing '#' anywhere are skipped in their entirety (a
// deliberately preserved quirk: the legacy loader rejects the whole
// line rather than stripping a trailing comment — spec.md §6/§9).
// Empty lines are skipped. Unreadable files are logged and otherwise
// ignored.
func IngestPathFile(data *Data, filename string, ixp, clique map[AS]struct{}) {
	r := newCompressedReader(filename)
	if err := r.Open(); err != nil {
		log.Println(err)
		return
	}
	defer r.Close()

	scanner := r.Scanner()
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.Contains(line, "#") {
			continue
		}
		IngestPathLine(data, line, ixp, clique)
	}
}

// IngestPathFiles streams every path file into data, in order.
func IngestPathFiles(data *Data, filenames []string, ixp, clique map[AS]struct{}) {
	for _, f := range filenames {
		IngestPathFile(data, f, ixp, clique)
	}
}
