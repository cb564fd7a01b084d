// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/qri-io/jsonschema"
)

// ErrSchema is returned when a JSON document does not describe a valid
// Micheline expression.
var ErrSchema = errors.New("micheline: json schema violation")

const michelineSchema = `{
  "$schema": "http://json-schema.org/draft/2019-09/schema#",
  "$id": "https://blockwatch.cc/schemas/micheline.json",
  "title": "Micheline expression",
  "oneOf": [
    { "$ref": "#/$defs/int" },
    { "$ref": "#/$defs/string" },
    { "$ref": "#/$defs/bytes" },
    { "$ref": "#/$defs/prim" },
    { "$ref": "#/$defs/seq" }
  ],
  "$defs": {
    "expr": {
      "oneOf": [
        { "$ref": "#/$defs/int" },
        { "$ref": "#/$defs/string" },
        { "$ref": "#/$defs/bytes" },
        { "$ref": "#/$defs/prim" },
        { "$ref": "#/$defs/seq" }
      ]
    },
    "int": {
      "type": "object",
      "required": ["int"],
      "additionalProperties": false,
      "properties": {
        "int": { "type": "string", "pattern": "^-?[0-9]+$" }
      }
    },
    "string": {
      "type": "object",
      "required": ["string"],
      "additionalProperties": false,
      "properties": {
        "string": { "type": "string" }
      }
    },
    "bytes": {
      "type": "object",
      "required": ["bytes"],
      "additionalProperties": false,
      "properties": {
        "bytes": { "type": "string", "pattern": "^([a-fA-F0-9][a-fA-F0-9])*$" }
      }
    },
    "prim": {
      "type": "object",
      "required": ["prim"],
      "additionalProperties": false,
      "properties": {
        "prim": { "type": "string", "pattern": "^[A-Za-z0-9_]+$" },
        "args": { "type": "array", "items": { "$ref": "#/$defs/expr" } },
        "annots": {
          "type": "array",
          "items": { "type": "string", "pattern": "^[@:%!?$&]" }
        }
      }
    },
    "seq": {
      "type": "array",
      "items": { "$ref": "#/$defs/expr" }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema = &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(michelineSchema), schema); err != nil {
			schemaErr = fmt.Errorf("micheline: reading schema failed: %v", err)
		}
	})
	return schema, schemaErr
}

// ValidateJSON checks that buf is a structurally valid Micheline JSON
// document. Primitive names are not checked against the registry.
func ValidateJSON(ctx context.Context, buf []byte) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}
	errs, err := s.ValidateBytes(ctx, buf)
	if err != nil {
		return fmt.Errorf("micheline: invalid json: %w", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrSchema, errs[0].Error())
	}
	return nil
}

// ParseJSON validates buf against the schema and decodes it.
func ParseJSON(ctx context.Context, buf []byte) (*Prim, error) {
	if err := ValidateJSON(ctx, buf); err != nil {
		return nil, err
	}
	p := &Prim{}
	if err := json.Unmarshal(buf, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SchemaJSON returns the embedded schema document.
func SchemaJSON() []byte {
	return []byte(michelineSchema)
}
