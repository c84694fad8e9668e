package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cathbad/internal/fingerprint"
)

// AssertGoldenJSON compares the canonical form of body against
// testdata/golden/<name>.golden.
//
// Canonicalizing first means the golden files do not depend on field
// declaration order or encoder whitespace. Run with -update to rewrite them.
func AssertGoldenJSON(t *testing.T, name string, body []byte) {
	t.Helper()

	canonical, err := fingerprint.Canonicalize(body)
	require.NoError(t, err, "canonicalize %s", name)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, canonical)
}
