package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed manifest.schema.yaml
var schemaYAML []byte

var schema = mustCompileSchema(schemaYAML)

func mustCompileSchema(src []byte) *gojsonschema.Schema {
	// gojsonschema only reads JSON; the schema is kept in YAML for readability.
	var schemaData any
	if err := yaml.Unmarshal(src, &schemaData); err != nil {
		panic(fmt.Sprintf("manifest schema: %v", err))
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		panic(fmt.Sprintf("manifest schema: %v", err))
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
	if err != nil {
		panic(fmt.Sprintf("manifest schema: %v", err))
	}
	return compiled
}

// validate returns one human readable line per schema violation.
func validate(doc any) []string {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}
	out := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		out = append(out, fmt.Sprintf("%s: %s", field, verr.Description()))
	}
	return out
}
