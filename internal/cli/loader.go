package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cathbad/internal/query"
)

// Error code constants, shared by all commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E002" // Query file not found or unreadable
	ErrCodeUnknownFormat = "E003" // Unsupported file extension
	ErrCodeParseFailed   = "E004" // File is not valid JSON, YAML or CUE
	ErrCodeDecodeFailed  = "E005" // Document is not a native query
	ErrCodeConfig        = "E006" // Bad configuration
	ErrCodeMetrics       = "E007" // Metrics file could not be written

	ErrCodeInvalidQuery  = "E101" // Query failed validation
	ErrCodeSerialization = "E102" // Query could not be encoded

	ErrCodeTransport = "E201" // No response from the endpoint
	ErrCodeDomain    = "E202" // Engine rejected the query
	ErrCodeResponse  = "E203" // Unrecognized response
)

// LoadError is a failure to turn a file into a query.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadedQuery is a decoded query document.
type LoadedQuery struct {
	Path  string
	Query query.NativeQuery
}

// LoadQuery reads one native query from path. The format follows the
// extension: .json, .yaml or .yml, .cue. A path of "-" reads JSON from stdin.
func LoadQuery(path string, stdin io.Reader) (*LoadedQuery, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("read %s", path), Err: err}
	}

	doc, err := toJSON(path, data)
	if err != nil {
		return nil, err
	}

	q, err := query.Unmarshal(doc)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decode %s", path), Err: err}
	}
	return &LoadedQuery{Path: path, Query: q}, nil
}

// toJSON converts a document to JSON according to its file extension.
func toJSON(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case path == "-" || ext == ".json":
		return data, nil
	case ext == ".yaml" || ext == ".yml":
		return yamlToJSON(path, data)
	case ext == ".cue":
		return cueToJSON(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("unsupported query file %q: want .json, .yaml, .yml or .cue", path),
		}
	}
}

func yamlToJSON(path string, data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse YAML %s", path), Err: err}
	}
	if doc == nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("%s is empty", path)}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("convert YAML %s", path), Err: err}
	}
	return out, nil
}

// cueToJSON evaluates a CUE file and exports it. Every field must be
// concrete; definitions and hidden fields are not exported.
func cueToJSON(path string, data []byte) ([]byte, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("compile CUE %s", path), Err: err}
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("CUE %s is not concrete", path), Err: err}
	}
	out, err := value.MarshalJSON()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("export CUE %s", path), Err: err}
	}
	return out, nil
}

// loadFailure reports err through f and returns the command error.
func loadFailure(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		message := le.Message
		if le.Err != nil {
			message = fmt.Sprintf("%s: %v", le.Message, le.Err)
		}
		return f.Fail(ExitCommandError, le.Code, message, nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
