// Command asrank infers AS-to-AS business relationships (peer, customer,
// provider) from a corpus of observed BGP AS paths, reproducing the
// CAIDA AS-relationship inference heuristic. See the asrank package
// for the engine itself; this command only handles argument parsing
// and I/O wiring.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strings"

	"github.com/rvarloot/asrank"
	"github.com/rvarloot/asrank/ip2as"
	"github.com/rvarloot/asrank/store"
)

// stringList accumulates repeatable -flag values (spec.md §6: --ixp
// and --rel may each be given more than once).
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var ixpFiles, relFiles stringList
	flag.Var(&ixpFiles, "ixp", "AS-list file of IXP route-server ASes to filter out of paths (repeatable)")
	flag.Var(&relFiles, "rel", "relationship file (a|b|r) to preload before inference (repeatable)")
	cliqueFile := flag.String("clique", "", "AS-list file naming the Tier-1 clique; derived automatically if omitted")
	ip2asFile := flag.String("ip2as", "", "CAIDA ip2as file, loaded for --resolve-ip lookups")
	resolveIPs := flag.String("resolve-ip", "", "comma-separated IPs to resolve against --ip2as before the main run")
	sqliteOut := flag.String("sqlite-out", "", "persist the inferred relationship graph to a SQLite database at this path")
	sqliteIn := flag.String("sqlite-in", "", "preload relationships from a SQLite database written by a prior --sqlite-out run")
	quiet := flag.Bool("quiet", false, "suppress progress/config echo on standard error")
	flag.Parse()

	pathFiles := flag.Args()
	if len(pathFiles) == 0 {
		fmt.Fprintln(os.Stderr, "usage: asrank [--ixp FILE]... [--rel FILE]... [--clique FILE] PATHFILE [PATHFILE...]")
		os.Exit(1)
	}

	logf := func(format string, args ...interface{}) {
		if !*quiet {
			log.Printf(format, args...)
		}
	}

	if *ip2asFile != "" && *resolveIPs != "" {
		resolveDiagnostic(*ip2asFile, *resolveIPs)
	}

	ixp := asrank.LoadASSets(ixpFiles)
	logf("loaded %d IXP AS(es) from %d file(s)", len(ixp), len(ixpFiles))

	var clique map[asrank.AS]struct{}
	if *cliqueFile != "" {
		clique = asrank.LoadASSet(*cliqueFile)
		logf("loaded %d-member clique from %s", len(clique), *cliqueFile)
	} else {
		logf("deriving clique from path data")
	}

	var preloadRelFiles []string
	preloadRelFiles = append(preloadRelFiles, relFiles...)

	var sqliteEntries []asrank.RelationshipEntry
	if *sqliteIn != "" {
		loaded, err := store.Open(*sqliteIn).Load()
		if err != nil {
			logf("sqlite-in %s: %v", *sqliteIn, err)
		} else {
			for pair, rel := range loaded {
				sqliteEntries = append(sqliteEntries, asrank.RelationshipEntry{A: pair[0], B: pair[1], Relationship: rel})
			}
			logf("loaded %d relationship(s) from %s", len(sqliteEntries), *sqliteIn)
		}
	}

	if clique == nil {
		clique = asrank.ComputeClique(pathFiles, ixp)
	}

	data := asrank.NewData()
	asrank.IngestPathFiles(data, pathFiles, ixp, clique)
	if len(sqliteEntries) > 0 {
		asrank.ApplyRelationships(data, sqliteEntries)
	}
	for _, f := range preloadRelFiles {
		asrank.ApplyRelationships(data, asrank.LoadRelationships(f))
	}
	asrank.SeedClique(data, clique)
	asrank.ComputeTransitDegrees(data)
	byRank := asrank.ComputeRanks(data)
	asrank.Infer(data, byRank, clique)

	logf("inferred relationships for %d AS(es)", data.Len())

	if err := asrank.Emit(os.Stdout, data, clique); err != nil {
		log.Fatalf("asrank: writing output: %v", err)
	}

	if *sqliteOut != "" {
		if err := store.Open(*sqliteOut).Save(data); err != nil {
			logf("sqlite-out %s: %v", *sqliteOut, err)
		} else {
			logf("persisted relationship graph to %s", *sqliteOut)
		}
	}
}

// resolveDiagnostic loads an ip2as file and prints ip -> AS
// resolutions to stderr, as a standalone diagnostic that does not gate
// the main pipeline (spec.md §6 [ADDED]).
func resolveDiagnostic(ip2asFile, ips string) {
	table, err := ip2as.Load(ip2asFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve-ip: %v\n", err)
		return
	}
	for _, raw := range strings.Split(ips, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve-ip: %s: %v\n", raw, err)
			continue
		}
		as, ok := table.Resolve(addr)
		if !ok {
			fmt.Fprintf(os.Stderr, "%s -> (no match)\n", raw)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s -> AS%d\n", raw, as)
	}
}
