// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package profile

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the generated profile schema.
const SchemaID = "https://holomush.dev/schemas/modfloat-profile.schema.json"

var (
	schemaOnce  sync.Once
	schemaCache *jschema.Schema
	schemaErr   error
)

// GenerateSchema generates a JSON Schema from the Profile struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Profile{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Modifiable stat profile"
	schema.Description = "Schema for stat profile YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("profile").Wrapf(err, "failed to marshal schema")
	}
	return data, nil
}

// ValidateSchema validates YAML data against the profile JSON Schema.
func ValidateSchema(data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return invalid(ErrInvalid, "profile data is empty")
	}

	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return invalid(err, "invalid YAML")
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(convertToJSONTypes(yamlData)); err != nil {
		return oops.In("profile").
			Code(CodeInvalid).
			Hint(FormatSchemaError(err)).
			Wrapf(err, "schema validation failed")
	}
	return nil
}

func compiledSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaCache, schemaErr = compileSchema()
	})
	return schemaCache, schemaErr
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.In("profile").Wrapf(err, "failed to parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("profile.schema.json", schemaData); err != nil {
		return nil, oops.In("profile").Wrapf(err, "failed to add schema resource")
	}
	sch, err := c.Compile("profile.schema.json")
	if err != nil {
		return nil, oops.In("profile").Wrapf(err, "failed to compile schema")
	}
	return sch, nil
}

// convertToJSONTypes normalizes YAML-decoded values into the types a JSON
// decoder would produce.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = convertToJSONTypes(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = convertToJSONTypes(v)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case string, float64, bool, nil:
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

// FormatSchemaError returns the validation detail without its prefix.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "jsonschema validation failed"); i >= 0 {
		msg = strings.TrimSpace(msg[i+len("jsonschema validation failed"):])
	}
	return msg
}
