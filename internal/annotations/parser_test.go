package annotations

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/toyz/mapkey/internal/errors"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	registry := NewRegistry()
	if err := RegisterBuiltinSchemas(registry); err != nil {
		t.Fatalf("failed to register builtin schemas: %v", err)
	}
	return NewParser(registry)
}

func TestParseMapKeyAnnotation(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "keys.go", Line: 3, Column: 1}

	tests := []struct {
		name       string
		input      string
		wantUnwrap bool
		hasUnwrap  bool
	}{
		{"bare", "//axon::mapkey", true, false},
		{"space after slashes", "// axon::mapkey", true, false},
		{"flag", "//axon::mapkey -Unwrap", true, true},
		{"explicit true", "//axon::mapkey -Unwrap=true", true, true},
		{"explicit false", "//axon::mapkey -Unwrap=false", false, true},
		{"quoted false", `//axon::mapkey -Unwrap="false"`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotation, err := parser.ParseAnnotation(tt.input, location)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if annotation.Type != MapKeyAnnotation {
				t.Errorf("expected MapKeyAnnotation, got %v", annotation.Type)
			}
			if annotation.HasParameter("Unwrap") != tt.hasUnwrap {
				t.Errorf("HasParameter(Unwrap) = %v, want %v", annotation.HasParameter("Unwrap"), tt.hasUnwrap)
			}
			if got := annotation.GetBool("Unwrap", true); got != tt.wantUnwrap {
				t.Errorf("Unwrap = %v, want %v", got, tt.wantUnwrap)
			}
			if annotation.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", annotation.Raw, tt.input)
			}
		})
	}
}

func TestParseProvidesAnnotation(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "providers.go", Line: 10, Column: 1}

	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue string
		hasValue  bool
	}{
		{"named", `//axon::provides -Key=RegionKey -Value="eu-west"`, "RegionKey", "eu-west", true},
		{"named bare word", `//axon::provides -Key=RegionKey -Value=eu-west`, "RegionKey", "eu-west", true},
		{"positional", "//axon::provides mapkey.StringKey twix", "mapkey.StringKey", "twix", true},
		{"positional number", "//axon::provides mapkey.IntKey 42", "mapkey.IntKey", "42", true},
		{"negative number", "//axon::provides mapkey.IntKey -7", "mapkey.IntKey", "-7", true},
		{"quoted with spaces", `//axon::provides NameKey "hello world"`, "NameKey", "hello world", true},
		{"uuid", `//axon::provides mapkey.UUIDKey "7d444840-9dc0-11d1-b245-5ffdce74fad2"`,
			"mapkey.UUIDKey", "7d444840-9dc0-11d1-b245-5ffdce74fad2", true},
		{"bare uuid", "//axon::provides mapkey.UUIDKey 7d444840-9dc0-11d1-b245-5ffdce74fad2",
			"mapkey.UUIDKey", "7d444840-9dc0-11d1-b245-5ffdce74fad2", true},
		{"named bare uuid", "//axon::provides -Key=mapkey.UUIDKey -Value=7d444840-9dc0-11d1-b245-5ffdce74fad2",
			"mapkey.UUIDKey", "7d444840-9dc0-11d1-b245-5ffdce74fad2", true},
		{"hex number", "//axon::provides mapkey.IntKey 0x2A", "mapkey.IntKey", "0x2A", true},
		{"named hex number", "//axon::provides -Key=mapkey.IntKey -Value=0x10", "mapkey.IntKey", "0x10", true},
		{"digit separators", "//axon::provides mapkey.IntKey 1_000", "mapkey.IntKey", "1_000", true},
		{"decimal", "//axon::provides PriceKey 3.14", "PriceKey", "3.14", true},
		{"key only", "//axon::provides RawKey", "RawKey", "", false},
		{"mixed", "//axon::provides ColorKey -Value=Red", "ColorKey", "Red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotation, err := parser.ParseAnnotation(tt.input, location)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if annotation.Type != ProvidesAnnotation {
				t.Errorf("expected ProvidesAnnotation, got %v", annotation.Type)
			}
			if got := annotation.GetString("Key"); got != tt.wantKey {
				t.Errorf("Key = %q, want %q", got, tt.wantKey)
			}
			if annotation.HasParameter("Value") != tt.hasValue {
				t.Fatalf("HasParameter(Value) = %v, want %v", annotation.HasParameter("Value"), tt.hasValue)
			}
			if got := annotation.GetString("Value"); got != tt.wantValue {
				t.Errorf("Value = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "bad.go", Line: 7, Column: 1}

	tests := []struct {
		name     string
		input    string
		wantCode errors.ErrorCode
		contains string
	}{
		{"unknown type", "//axon::route GET", errors.SyntaxErrorCode, "unknown annotation type"},
		{"missing key", "//axon::provides -Value=1", errors.ValidationErrorCode, "missing required parameter 'Key'"},
		{"unknown parameter", "//axon::mapkey -Mode=Transient", errors.ValidationErrorCode, "unknown parameter 'Mode'"},
		{"bad bool", "//axon::mapkey -Unwrap=maybe", errors.ValidationErrorCode, "cannot convert"},
		{"too many positionals", "//axon::provides K v extra", errors.SyntaxErrorCode, "unexpected positional argument"},
		{"duplicate", "//axon::provides K -Key=J", errors.ValidationErrorCode, "more than once"},
		{"bad key name", "//axon::provides -Key=a.b.c", errors.ValidationErrorCode, "validation failed"},
		{"key without value", "//axon::provides -Key", errors.ValidationErrorCode, "requires a value"},
		{"not an annotation", "// just a comment", errors.SyntaxErrorCode, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, location)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}

			var coded errors.CodedError
			if !stderrors.As(err, &coded) {
				t.Fatalf("expected CodedError, got %T", err)
			}
			if coded.ErrorCode() != tt.wantCode {
				t.Errorf("code = %v, want %v (%v)", coded.ErrorCode(), tt.wantCode, err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestSyntaxErrorLocation(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "bad.go", Line: 4, Column: 1}

	_, err := parser.ParseAnnotation("//axon::mapkey -Unwrap=", location)
	if err == nil {
		t.Fatal("expected syntax error")
	}

	var base *errors.BaseError
	if !stderrors.As(err, &base) {
		t.Fatalf("expected BaseError, got %T", err)
	}
	if base.Loc.File != "bad.go" || base.Loc.Line != 4 {
		t.Errorf("unexpected location %v", base.Loc)
	}
	if base.Loc.Column <= 1 {
		t.Errorf("expected column inside the comment, got %d", base.Loc.Column)
	}
}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"//axon::mapkey", true},
		{"  // axon::provides K", true},
		{"// axon is a word", false},
		{"/* axon::mapkey */", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAnnotation(tt.input); got != tt.want {
			t.Errorf("IsAnnotation(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
