package ip2as

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/rvarloot/asrank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadResolvesLongestPrefixMatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ip2as.txt", ""+
		"10.0.0.0/8|100\n"+
		"10.1.0.0/16|200\n"+
		"# a comment line\n"+
		"10.1.2.0/24|300\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	as, ok := tbl.Resolve(netip.MustParseAddr("10.1.2.5"))
	require.True(t, ok)
	assert.Equal(t, asrank.AS(300), as)

	as, ok = tbl.Resolve(netip.MustParseAddr("10.1.5.5"))
	require.True(t, ok)
	assert.Equal(t, asrank.AS(200), as)

	as, ok = tbl.Resolve(netip.MustParseAddr("10.99.0.1"))
	require.True(t, ok)
	assert.Equal(t, asrank.AS(100), as)

	_, ok = tbl.Resolve(netip.MustParseAddr("192.168.1.1"))
	assert.False(t, ok)
}

func TestLoadSkipsNegativeAndMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ip2as.txt", ""+
		"172.16.0.0/16|-1\n"+
		"not-a-prefix|5\n"+
		"172.17.0.0/16|notanumber\n"+
		"172.18.0.0/16|42\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	_, ok := tbl.Resolve(netip.MustParseAddr("172.16.0.1"))
	assert.False(t, ok, "negative AS (IXP convention) must be skipped")
	_, ok = tbl.Resolve(netip.MustParseAddr("172.17.0.1"))
	assert.False(t, ok)

	as, ok := tbl.Resolve(netip.MustParseAddr("172.18.0.1"))
	require.True(t, ok)
	assert.Equal(t, asrank.AS(42), as)
}

func TestResolvePrefixUsesLPM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ip2as.txt", "203.0.113.0/24|7\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	as, ok := tbl.ResolvePrefix(netip.MustParsePrefix("203.0.113.128/25"))
	require.True(t, ok)
	assert.Equal(t, asrank.AS(7), as)
}
