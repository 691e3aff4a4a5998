package catalog

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Payload names a kind of catalog response that can be validated.
type Payload string

const (
	PayloadServerList   Payload = "server_list"
	PayloadServerDetail Payload = "server_detail"
	PayloadHealth       Payload = "health"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

// schemaSet holds compiled JSON schemas for each payload kind.
type schemaSet map[Payload]*gojsonschema.Schema

func loadSchemas() (schemaSet, error) {
	set := make(schemaSet, 3)
	for _, p := range []Payload{PayloadServerList, PayloadServerDetail, PayloadHealth} {
		data, err := embeddedSchemas.ReadFile("schemas/" + string(p) + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded schema '%s': %w", p, err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema '%s': %w", p, err)
		}
		set[p] = schema
	}

	return set, nil
}

func (s schemaSet) validate(p Payload, body []byte) error {
	schema, ok := s[p]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(problems, "; "))
}

// ValidatePayload checks body against the embedded schema for the given payload kind.
// It is exported for tooling that checks captured catalog responses offline.
func ValidatePayload(p Payload, body []byte) error {
	set, err := loadSchemas()
	if err != nil {
		return err
	}
	if _, ok := set[p]; !ok {
		return fmt.Errorf("unknown payload kind '%s'", p)
	}

	return set.validate(p, body)
}
