package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationRegistry defines the interface for managing annotation schemas
type AnnotationRegistry interface {
	// Register adds the schema for schema.Type
	Register(schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// ListTypes returns all registered annotation types in order
	ListTypes() []AnnotationType

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[AnnotationType]AnnotationSchema
}

// NewRegistry creates an empty annotation registry
func NewRegistry() AnnotationRegistry {
	return &registry{
		schemas: make(map[AnnotationType]AnnotationSchema),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry with the builtin schemas
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

func (r *registry) Register(schema AnnotationSchema) error {
	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", schema.Type, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[schema.Type]; exists {
		return fmt.Errorf("annotation type %s is already registered", schema.Type)
	}
	r.schemas[schema.Type] = schema
	return nil
}

func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[annotationType]
	if !exists {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType)
	}
	return schema, nil
}

func (r *registry) ListTypes() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]AnnotationType, 0, len(r.schemas))
	for annotationType := range r.schemas {
		types = append(types, annotationType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[annotationType]
	return exists
}

// validateSchema checks parameter names, types, defaults and positional names
func validateSchema(schema AnnotationSchema) error {
	for name, spec := range schema.Parameters {
		if name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if spec.Type < StringType || spec.Type > StringSliceType {
			return fmt.Errorf("invalid parameter type for %s: %d", name, spec.Type)
		}
		if spec.DefaultValue != nil {
			if err := validateDefaultValue(name, spec); err != nil {
				return err
			}
		}
	}

	for _, name := range schema.Positional {
		if _, exists := schema.Parameters[name]; !exists {
			return fmt.Errorf("positional parameter %s is not declared", name)
		}
	}
	return nil
}

func validateDefaultValue(name string, spec ParameterSpec) error {
	ok := false
	switch spec.Type {
	case StringType:
		_, ok = spec.DefaultValue.(string)
	case BoolType:
		_, ok = spec.DefaultValue.(bool)
	case IntType:
		_, ok = spec.DefaultValue.(int)
	case StringSliceType:
		_, ok = spec.DefaultValue.([]string)
	}
	if !ok {
		return fmt.Errorf("default value for %s parameter %s must be %s, got %T",
			spec.Type, name, spec.Type, spec.DefaultValue)
	}
	return nil
}
