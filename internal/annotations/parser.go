package annotations

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/mapkey/internal/errors"
)

// Prefix is the marker that starts every annotation after the comment slashes
const Prefix = "axon::"

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Prefix", Pattern: `axon::`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Word", Pattern: `[-+]?[0-9][0-9.]*[A-Za-z_\-][0-9A-Za-z_\-.]*`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// directive is the grammar root: //axon::<type> args...
type directive struct {
	Type string      `parser:"Comment Prefix @Ident"`
	Args []*argument `parser:"@@*"`
}

type argument struct {
	Named *namedArgument `parser:"  @@"`
	Value *literal       `parser:"| @@"`
}

type namedArgument struct {
	Name  string   `parser:"Dash @Ident"`
	Value *literal `parser:"( Equals @@ )?"`
}

type literal struct {
	String *string `parser:"  @String"`
	Word   *string `parser:"| @Word"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @(Ident (Dot Ident)*)"`
}

func (l *literal) raw() string {
	switch {
	case l.String != nil:
		return *l.String
	case l.Word != nil:
		return *l.Word
	case l.Number != nil:
		return *l.Number
	case l.Ident != nil:
		return *l.Ident
	default:
		return ""
	}
}

// Parser parses //axon:: comment annotations and validates them against
// the registered schemas
type Parser struct {
	parser   *participle.Parser[directive]
	registry AnnotationRegistry
}

// NewParser creates a parser. A nil registry uses DefaultRegistry.
func NewParser(registry AnnotationRegistry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{
		parser: participle.MustBuild[directive](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is an //axon:: annotation
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(comment)
	if !strings.HasPrefix(text, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(text[2:]), Prefix)
}

// ParseAnnotation parses a single annotation comment
func (p *Parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	d, err := p.parser.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, syntaxError(err, location)
	}

	annotationType, err := ParseAnnotationType(d.Type)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "invalid annotation", err).
			WithLocation(location).
			WithSuggestion("Use //axon::mapkey on key types or //axon::provides on provider functions")
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, errors.Wrap(errors.SchemaErrorCode, "no schema", err).WithLocation(location)
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}

	positional := 0
	for _, arg := range d.Args {
		var name string
		var value interface{}

		if arg.Named != nil {
			name = arg.Named.Name
			spec, exists := schema.Parameters[name]
			if !exists {
				return nil, unknownParameterError(name, schema, location)
			}
			value, err = namedValue(spec, arg.Named.Value)
		} else {
			if positional >= len(schema.Positional) {
				return nil, errors.Newf(errors.SyntaxErrorCode,
					"unexpected positional argument '%s' for %s", arg.Value.raw(), annotationType).
					WithLocation(location).
					WithSuggestion(fmt.Sprintf("Use named parameters, e.g. %s", firstExample(schema)))
			}
			name = schema.Positional[positional]
			positional++
			value, err = convertParameter(schema.Parameters[name], arg.Value.raw())
		}

		if err != nil {
			return nil, errors.Wrap(errors.ValidationErrorCode,
				fmt.Sprintf("parameter '%s' of %s", name, annotationType), err).WithLocation(location)
		}
		if parsed.HasParameter(name) {
			return nil, errors.Newf(errors.ValidationErrorCode,
				"parameter '%s' given more than once", name).WithLocation(location)
		}
		parsed.Parameters[name] = value
	}

	if err := validateAgainstSchema(parsed, schema); err != nil {
		return nil, err
	}
	return parsed, nil
}

// namedValue resolves -Name or -Name=value. A bare flag is true for bool
// parameters and the default value for parameters that have one.
func namedValue(spec ParameterSpec, value *literal) (interface{}, error) {
	if value != nil {
		return convertParameter(spec, value.raw())
	}
	if spec.Type == BoolType {
		return true, nil
	}
	if spec.DefaultValue != nil {
		return spec.DefaultValue, nil
	}
	return nil, fmt.Errorf("requires a value")
}

// validateAgainstSchema runs parameter validators and checks required parameters
func validateAgainstSchema(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	for name, value := range annotation.Parameters {
		spec := schema.Parameters[name]
		if spec.Validator == nil {
			continue
		}
		if err := spec.Validator(value); err != nil {
			return errors.Wrap(errors.ValidationErrorCode,
				fmt.Sprintf("parameter '%s' validation failed", name), err).
				WithLocation(annotation.Location)
		}
	}

	for name, spec := range schema.Parameters {
		if spec.Required && !annotation.HasParameter(name) {
			return errors.Newf(errors.ValidationErrorCode,
				"missing required parameter '%s' for annotation type %s", name, annotation.Type).
				WithLocation(annotation.Location).
				WithSuggestion(fmt.Sprintf("Example: %s", firstExample(schema)))
		}
	}
	return nil
}

func syntaxError(err error, location SourceLocation) error {
	loc := location
	var perr participle.Error
	if stderrors.As(err, &perr) {
		pos := perr.Position()
		if loc.Column > 0 {
			loc.Column += pos.Column - 1
		} else {
			loc.Column = pos.Column
		}
		return errors.New(errors.SyntaxErrorCode, perr.Message()).
			WithLocation(loc).
			WithSuggestion("Use format: //axon::type [args] [-Name=value] and quote values containing spaces or starting with a digit")
	}
	return errors.Wrap(errors.SyntaxErrorCode, "invalid annotation", err).WithLocation(loc)
}

func unknownParameterError(name string, schema AnnotationSchema, location SourceLocation) error {
	known := make([]string, 0, len(schema.Parameters))
	for param := range schema.Parameters {
		known = append(known, "-"+param)
	}
	sort.Strings(known)
	return errors.Newf(errors.ValidationErrorCode,
		"unknown parameter '%s' for annotation type %s", name, schema.Type).
		WithLocation(location).
		WithSuggestion(fmt.Sprintf("Valid parameters: %s", strings.Join(known, ", ")))
}

func firstExample(schema AnnotationSchema) string {
	if len(schema.Examples) == 0 {
		return "//" + Prefix + schema.Type.String()
	}
	return schema.Examples[0]
}
