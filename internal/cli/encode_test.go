package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cathbad/internal/query"
)

func TestEncodeText(t *testing.T) {
	path := writeQuery(t, "scan.yaml", scanQueryYAML)

	out, err := execute(t, NewEncodeCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	want, err := query.Marshal(expectedScan())
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", out)
}

func TestEncodeIndent(t *testing.T) {
	path := writeQuery(t, "scan.cue", scanQueryCUE)

	out, err := execute(t, NewEncodeCommand(&RootOptions{Format: "text"}), "--indent", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "{\n  \"queryType\": \"scan\","), out)
	q, err := query.Unmarshal([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, expectedScan(), q)
}

func TestEncodeJSONEnvelope(t *testing.T) {
	path := writeQuery(t, "scan.json", scanQueryJSON)

	out, err := execute(t, NewEncodeCommand(&RootOptions{Format: "json"}), path)
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	q, err := query.Unmarshal(resp.Data)
	require.NoError(t, err)
	assert.Equal(t, expectedScan(), q)
}

func TestEncodeRejectsInvalidQuery(t *testing.T) {
	path := writeQuery(t, "bad.json", `{"queryType":"scan","dataSource":"","intervals":[]}`)

	out, err := execute(t, NewEncodeCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E101]")
	assert.NotContains(t, out, "queryType")
}
