package discovery

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var intBits = map[string]int{
	"int": 0, "int8": 8, "int16": 16, "int32": 32, "rune": 32, "int64": 64,
}

var uintBits = map[string]int{
	"uint": 0, "uint8": 8, "byte": 8, "uint16": 16, "uint32": 32, "uint64": 64, "uintptr": 0,
}

// ConvertLiteral checks that literal is a valid value of typeName and returns
// it as a Go expression. Names of package-local types are qualified with
// packageName; a bare identifier for such a type is taken to be a constant.
func ConvertLiteral(typeName, literal, packageName string) (string, error) {
	if bits, ok := intBits[typeName]; ok {
		v, err := strconv.ParseInt(literal, 0, bits)
		if err != nil {
			return "", fmt.Errorf("%q is not a valid %s", literal, typeName)
		}
		return strconv.FormatInt(v, 10), nil
	}
	if bits, ok := uintBits[typeName]; ok {
		v, err := strconv.ParseUint(literal, 0, bits)
		if err != nil {
			return "", fmt.Errorf("%q is not a valid %s", literal, typeName)
		}
		return strconv.FormatUint(v, 10), nil
	}

	switch typeName {
	case "string":
		return strconv.Quote(literal), nil
	case "bool":
		v, err := strconv.ParseBool(literal)
		if err != nil {
			return "", fmt.Errorf("%q is not a valid bool", literal)
		}
		return strconv.FormatBool(v), nil
	case "float32", "float64":
		bits := 64
		if typeName == "float32" {
			bits = 32
		}
		v, err := strconv.ParseFloat(literal, bits)
		if err != nil {
			return "", fmt.Errorf("%q is not a valid %s", literal, typeName)
		}
		return strconv.FormatFloat(v, 'g', -1, bits), nil
	case "uuid.UUID":
		id, err := uuid.Parse(literal)
		if err != nil {
			return "", fmt.Errorf("%q is not a valid UUID: %w", literal, err)
		}
		return fmt.Sprintf("uuid.MustParse(%q)", id.String()), nil
	}

	// A named type: accept a constant of it
	if token.IsIdentifier(literal) {
		if strings.HasPrefix(typeName, packageName+".") {
			return packageName + "." + literal, nil
		}
		return literal, nil
	}
	if qualifier, name, ok := strings.Cut(literal, "."); ok && token.IsIdentifier(qualifier) && token.IsIdentifier(name) {
		return literal, nil
	}
	return "", fmt.Errorf("%q cannot be written as a %s; name a constant of that type", literal, typeName)
}
