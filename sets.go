package asrank

import (
	"log"
	"strconv"
	"strings"
)

// stripComment removes everything from the first '#' onward, matching
// the AS-list/relationship file comment convention of spec.md §6: '#'
// starts a comment that extends to end of line. (Path files instead
// reject the whole line if it contains '#' anywhere — see ingest.go.)
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return line
}

// LoadASSet parses one AS-list file: AS numbers separated by
// whitespace or newlines, with '#' comments. Unreadable files are
// logged and yield an empty set (ignorable-input class error, per
// spec.md §7).
func LoadASSet(filename string) map[AS]struct{} {
	out := make(map[AS]struct{})
	r := newCompressedReader(filename)
	if err := r.Open(); err != nil {
		log.Println(err)
		return out
	}
	defer r.Close()

	scanner := r.Scanner()
	for scanner.Scan() {
		for _, tok := range strings.Fields(stripComment(scanner.Text())) {
			n, err := strconv.ParseUint(tok, 10, 32)
			if err != nil {
				continue
			}
			out[AS(n)] = struct{}{}
		}
	}
	return out
}

// LoadASSets merges the AS sets of several files (spec.md's CLI allows
// repeating --ixp).
func LoadASSets(filenames []string) map[AS]struct{} {
	out := make(map[AS]struct{})
	for _, f := range filenames {
		for as := range LoadASSet(f) {
			out[as] = struct{}{}
		}
	}
	return out
}

// RelationshipEntry is one decoded record of a relationship file:
// a|b|r.
type RelationshipEntry struct {
	A, B         AS
	Relationship TypeOfRelationship
}

// LoadRelationships parses one relationship file: one a|b|r record per
// line, '#' comments as in LoadASSet. Malformed records are skipped
// silently (ignorable-input class error).
func LoadRelationships(filename string) []RelationshipEntry {
	var out []RelationshipEntry
	r := newCompressedReader(filename)
	if err := r.Open(); err != nil {
		log.Println(err)
		return out
	}
	defer r.Close()

	scanner := r.Scanner()
	for scanner.Scan() {
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 3 {
			continue
		}
		a, errA := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
		b, errB := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
		rv, errR := strconv.Atoi(strings.TrimSpace(fields[2]))
		if errA != nil || errB != nil || errR != nil {
			continue
		}
		rel, ok := ParseRelationship(rv)
		if !ok {
			continue
		}
		out = append(out, RelationshipEntry{A: AS(a), B: AS(b), Relationship: rel})
	}
	return out
}

// applyRelationships applies every entry via setRelationship, in file
// order. Entries rejected due to a cycle or an already-assigned link
// are silently dropped, per spec.md §6/§7/§9.
func applyRelationships(data *Data, entries []RelationshipEntry) {
	for _, e := range entries {
		data.Ensure(e.A)
		data.Ensure(e.B)
		data.setRelationship(e.A, e.B, e.Relationship)
	}
}

// ApplyRelationships is the exported form of applyRelationships, used
// by callers preloading relationships from a source other than a flat
// file (SPEC_FULL.md §4.8's SQLite store).
func ApplyRelationships(data *Data, entries []RelationshipEntry) {
	applyRelationships(data, entries)
}
