package discovery

import (
	"fmt"

	"github.com/toyz/mapkey/internal/errors"
	"github.com/toyz/mapkey/pkg/mapkey"
)

// CheckKeyType reports, at generation time, the extraction failure the
// runtime extractor would raise for values of kt
func CheckKeyType(kt *KeyType) *errors.BaseError {
	fail := func(reason mapkey.Reason, format string, args ...interface{}) *errors.BaseError {
		return errors.NewKeyExtractionError(kt.Name, reason, fmt.Sprintf(format, args...), kt.Location)
	}

	if kt.Mode == mapkey.UseAnnotation {
		if !kt.Comparable {
			return fail(mapkey.ReasonBadSignature, "%s is not comparable and cannot key a map", kt.Name)
		}
		return nil
	}

	if kt.Unwrapper {
		return nil
	}

	a := kt.Accessor
	switch {
	case a == nil && kt.HasValueField:
		return fail(mapkey.ReasonNoSuchMethod, "%s has a %s field but no %s() method",
			kt.Name, mapkey.ValueMethod, mapkey.ValueMethod)
	case a == nil:
		return fail(mapkey.ReasonNoSuchMethod, "%s has no %s() method", kt.Name, mapkey.ValueMethod)
	case a.Params != 0:
		return fail(mapkey.ReasonBadSignature, "%s must take no arguments, has %d",
			mapkey.ValueMethod, a.Params).WithLocation(locationOr(a, kt))
	case a.Results == 2 && a.SecondResult != "error":
		return fail(mapkey.ReasonBadSignature, "second result of %s must be error, got %s",
			mapkey.ValueMethod, a.SecondResult).WithLocation(locationOr(a, kt))
	case a.Results != 1 && a.Results != 2:
		return fail(mapkey.ReasonBadSignature, "%s must return one value, returns %d",
			mapkey.ValueMethod, a.Results).WithLocation(locationOr(a, kt))
	case !a.ResultComparable:
		return fail(mapkey.ReasonBadSignature, "%s returns %s, which is not comparable",
			mapkey.ValueMethod, a.ResultType).WithLocation(locationOr(a, kt))
	}
	return nil
}

func locationOr(a *Accessor, kt *KeyType) errors.SourceLocation {
	if a.Location.IsEmpty() {
		return kt.Location
	}
	return a.Location
}
