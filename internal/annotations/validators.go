package annotations

import (
	"fmt"
	"go/token"
	"strings"
)

// ValidateTypeName accepts Name or pkg.Name where both parts are Go identifiers
func ValidateTypeName(v interface{}) error {
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a type name, got %T", v)
	}

	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("must be Name or pkg.Name, got '%s'", name)
	}
	for _, part := range parts {
		if !token.IsIdentifier(part) {
			return fmt.Errorf("'%s' is not a valid Go identifier", part)
		}
	}
	return nil
}
