package skill

import "github.com/invopop/jsonschema"

// SchemaProvider is an optional interface for skills that describe the
// parameters of each action they support. The returned map is keyed by
// action name.
type SchemaProvider interface {
	ActionSchemas() map[string]*jsonschema.Schema
}

// GenerateSchema derives a JSON schema from a typed parameter struct.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}
