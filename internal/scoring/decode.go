package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

const codeFence = "```"

// StripCodeFence removes a leading ```lang line and everything from the
// closing fence on. Text without a leading fence is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, codeFence) {
		return text
	}
	_, rest, found := strings.Cut(text, "\n")
	if !found {
		return ""
	}
	if i := strings.LastIndex(rest, codeFence); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}

// Decode parses raw model output into v.
// The document is checked against schema first when schema is non-nil.
func Decode(raw string, schema *jsonschema.Resolved, v any) error {
	text := StripCodeFence(raw)
	if text == "" {
		return fmt.Errorf("%w: no content", ErrMalformedResponse)
	}

	var doc any
	if err := unmarshalJSON([]byte(text), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// MustResolve resolves s for validation and panics on an invalid schema.
func MustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("scoring: resolve schema: %v", err))
	}
	return r
}

// unmarshalJSON retries once through jsonrepair on a syntax error.
func unmarshalJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}
	fixed, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return err
	}
	return json.Unmarshal([]byte(fixed), v)
}
