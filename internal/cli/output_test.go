package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success("ignored in json mode", data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.NotContains(t, buf.String(), "ignored")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E101", "query failed validation", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
	assert.Equal(t, "query failed validation", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]any{"kind": "QueryCapacityExceeded", "status": 429}
	err := formatter.Error("E202", "engine rejected query", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("✓ scan query valid", map[string]bool{"valid": true})
	require.NoError(t, err)
	assert.Equal(t, "✓ scan query valid\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E002", "read missing.json", map[string]string{"path": "missing.json"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E002]")
	assert.Contains(t, buf.String(), "read missing.json")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"path": "missing.json"}
	err := formatter.Error("E002", "read missing.json", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E002]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Fail(ExitCommandError, ErrCodeTransport, "send request", nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "E201: send request", err.Error())
	assert.Contains(t, buf.String(), "Error [E201]: send request")
}

func TestOutputFormatter_Diagnostics(t *testing.T) {
	out := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: out}
	assert.Same(t, out, formatter.Diagnostics())

	errOut := &bytes.Buffer{}
	formatter.ErrWriter = errOut
	assert.Same(t, errOut, formatter.Diagnostics())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "config", errors.New("bad port"))))

	wrapped := WrapExitError(ExitFailure, "outer", &ExitError{Code: ExitCommandError})
	assert.Equal(t, ExitFailure, GetExitCode(wrapped), "outermost exit code wins")
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "config: bad port", WrapExitError(2, "config", errors.New("bad port")).Error())
	assert.Equal(t, "plain", (&ExitError{Code: 1, Message: "plain"}).Error())
}
