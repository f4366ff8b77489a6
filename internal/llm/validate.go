package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// normalizeResponse returns the schema-valid JSON object contained in raw.
// Model output wrapped in code fences or prose is salvaged first.
// Returns raw unchanged when no schema is given.
func normalizeResponse(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}
	if json.Valid(raw) {
		return raw, validateResponse(schema, raw)
	}

	salvaged, ok := SalvageJSON(string(raw))
	if !ok {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("no JSON object found in response"),
		}
	}
	if err := validateResponse(schema, salvaged); err != nil {
		return nil, err
	}
	return salvaged, nil
}

// SalvageJSON recovers a JSON object from model output. It strips
// markdown code fences, then falls back to the outermost brace-delimited
// substring. ok is false when nothing parseable remains.
func SalvageJSON(s string) (json.RawMessage, bool) {
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 {
		return nil, false
	}
	if json.Valid(b) {
		return json.RawMessage(b), true
	}

	b = stripCodeFences(b)
	if json.Valid(b) {
		return json.RawMessage(b), true
	}

	start := bytes.IndexByte(b, '{')
	end := bytes.LastIndexByte(b, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	b = b[start : end+1]
	if !json.Valid(b) {
		return nil, false
	}
	return json.RawMessage(b), true
}

func stripCodeFences(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	// Drop the opening fence line, including any language tag.
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		b = b[3:]
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

// validateResponse validates raw JSON against the given Schema.
// Returns nil if no schema is provided or validation passes.
// Returns *ErrInvalidResponse on failure.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// jsonschema wants a decoded value, not the Go map with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	defParsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
