package annotations

import "fmt"

// MapKeyAnnotationSchema defines the schema for //axon::mapkey annotations
var MapKeyAnnotationSchema = AnnotationSchema{
	Type:        MapKeyAnnotation,
	Description: "Marks a type as a map key type for multibindings",
	Parameters: map[string]ParameterSpec{
		"Unwrap": {
			Type:         BoolType,
			Required:     false,
			DefaultValue: true,
			Description:  "Key by the Value() accessor (default) or, when false, by the whole annotation value",
		},
	},
	Examples: []string{
		"//axon::mapkey",
		"//axon::mapkey -Unwrap",
		"//axon::mapkey -Unwrap=false",
	},
}

// ProvidesAnnotationSchema defines the schema for //axon::provides annotations
var ProvidesAnnotationSchema = AnnotationSchema{
	Type:        ProvidesAnnotation,
	Description: "Contributes a provider function to a map binding under a map key",
	Parameters: map[string]ParameterSpec{
		"Key": {
			Type:        StringType,
			Required:    true,
			Description: "Map key type name, optionally package qualified (e.g. RegionKey, mapkey.StringKey)",
			Validator:   ValidateTypeName,
		},
		"Value": {
			Type:        StringType,
			Required:    false,
			Description: "Key literal converted to the key type's Value() result type",
		},
	},
	Positional: []string{"Key", "Value"},
	Examples: []string{
		"//axon::provides -Key=RegionKey -Value=\"eu-west\"",
		"//axon::provides mapkey.StringKey twix",
		"//axon::provides mapkey.IntKey 42",
		"//axon::provides RawKey",
	},
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type, err)
		}
	}
	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		MapKeyAnnotationSchema,
		ProvidesAnnotationSchema,
	}
}
