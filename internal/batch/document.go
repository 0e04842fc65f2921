// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package batch defines the batch-file format consumed by the `dilemma
// check` CLI subcommand: a YAML document listing expressions to parse
// (and an optional sample context) so a whole rule set can be validated
// in one pass instead of one expression at a time.
//
// Grounded on internal/plugin/schema.go's GenerateSchema/ValidateSchema/
// sync.Once-cached-compiled-schema pattern: a Document struct is
// reflected into a JSON Schema with invopop/jsonschema, compiled once
// with santhosh-tekuri/jsonschema/v6, and re-used to validate every
// loaded batch file.
package batch

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Document is a batch file: a set of expressions to check, plus an
// optional sample context they may be evaluated against.
type Document struct {
	// Expressions are the dilemma source strings to parse.
	Expressions []string `json:"expressions" yaml:"expressions" jsonschema:"minItems=1"`
	// Context is an optional sample variable context. It is validated and
	// decoded with the document; Check does not use it and no expression
	// is evaluated against it.
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

type schemaState struct {
	once   sync.Once
	schema *jschema.Schema
	err    error
}

var globalSchemaState = &schemaState{}

const schemaID = "https://dilemma.dev/schemas/batch.schema.json"

// GenerateSchema reflects a JSON Schema from Document.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Document{})
	schema.ID = jsonschema.ID(schemaID)
	schema.Title = "Dilemma Batch File"
	schema.Description = "Schema for dilemma check batch files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "marshaling batch schema")
	}
	data = append(data, '\n')
	return data, nil
}

// ParseDocument validates YAML bytes against the batch schema, then
// decodes them into a Document.
func ParseDocument(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, oops.Code("batch_schema_error").Errorf("batch document is empty")
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "parsing batch YAML")
	}
	jsonLike := convertToJSONTypes(generic)

	sch, err := getCompiledSchema()
	if err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "compiling batch schema")
	}
	if err := sch.Validate(jsonLike); err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "batch document failed schema validation")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "decoding batch document")
	}
	return &doc, nil
}

func getCompiledSchema() (*jschema.Schema, error) {
	globalSchemaState.once.Do(func() {
		globalSchemaState.schema, globalSchemaState.err = compileSchema()
	})
	return globalSchemaState.schema, globalSchemaState.err
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "parsing generated schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("batch.json", schemaData); err != nil {
		return nil, oops.Code("batch_schema_error").Wrapf(err, "adding batch schema resource")
	}
	return c.Compile("batch.json")
}

// convertToJSONTypes converts YAML-parsed data (map[string]any keyed
// nodes, but occasionally non-JSON scalar types) into JSON-compatible
// types so jsonschema.v6 can validate it.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertToJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = convertToJSONTypes(v)
		}
		return result
	case string, int, int64, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var out any
			if err := json.Unmarshal(b, &out); err == nil {
				return out
			}
		}
		return val
	}
}

// ResetSchemaCache clears the cached compiled schema. Used by tests.
func ResetSchemaCache() {
	globalSchemaState = &schemaState{}
}
