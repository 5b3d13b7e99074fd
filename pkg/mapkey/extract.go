package mapkey

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeAndValueOf returns the key type and key value of a map key annotation.
//
// For a type registered with UseAnnotation the result is the annotation's own
// type and the annotation itself. For UnwrapValue the key comes from
// UnwrapKey when the annotation implements Unwrapper, and otherwise from the
// annotation's Value accessor: its declared return type and the value it
// returns. Any failure is an *ExtractionError.
func (r *Registry) TypeAndValueOf(annotation any) (TypeAndValue, error) {
	if annotation == nil {
		return TypeAndValue{}, newExtractionError(nil, ReasonNotMapKey, errors.New("annotation is nil"))
	}

	t := reflect.TypeOf(annotation)
	mode, ok := r.Mode(t)
	if !ok {
		return TypeAndValue{}, newExtractionError(t, ReasonNotMapKey,
			fmt.Errorf("%s is not registered as a map key type", t))
	}

	if mode == UseAnnotation {
		return TypeAndValue{Type: t, Value: annotation}, nil
	}
	return unwrap(annotation)
}

// MustTypeAndValueOf is like TypeAndValueOf but panics with the *ExtractionError
func (r *Registry) MustTypeAndValueOf(annotation any) TypeAndValue {
	tv, err := r.TypeAndValueOf(annotation)
	if err != nil {
		panic(err)
	}
	return tv
}

// TypeAndValueOf extracts a map key using the default registry
func TypeAndValueOf(annotation any) (TypeAndValue, error) {
	return DefaultRegistry().TypeAndValueOf(annotation)
}

// MustTypeAndValueOf extracts a map key using the default registry and panics on failure
func MustTypeAndValueOf(annotation any) TypeAndValue {
	return DefaultRegistry().MustTypeAndValueOf(annotation)
}

func unwrap(annotation any) (tv TypeAndValue, err error) {
	t := reflect.TypeOf(annotation)

	defer func() {
		if p := recover(); p != nil {
			cause := fmt.Errorf("accessor panicked: %v", p)
			if perr, ok := p.(error); ok {
				cause = fmt.Errorf("accessor panicked: %w", perr)
			}
			tv = TypeAndValue{}
			err = newExtractionError(t, ReasonInvocationFailed, cause)
		}
	}()

	if u, ok := annotation.(Unwrapper); ok {
		keyType, value := u.UnwrapKey()
		if keyType == nil {
			return TypeAndValue{}, newExtractionError(t, ReasonBadSignature, errors.New("UnwrapKey returned a nil type"))
		}
		return TypeAndValue{Type: keyType, Value: value}, nil
	}

	method, err := accessor(t)
	if err != nil {
		return TypeAndValue{}, err
	}

	results := reflect.ValueOf(annotation).Method(method.Index).Call(nil)
	if len(results) == 2 && !results[1].IsNil() {
		return TypeAndValue{}, newExtractionError(t, ReasonInvocationFailed, results[1].Interface().(error))
	}

	return TypeAndValue{Type: method.Type.Out(0), Value: results[0].Interface()}, nil
}

// accessor looks up the Value method of t and checks its signature
func accessor(t reflect.Type) (reflect.Method, error) {
	method, ok := t.MethodByName(ValueMethod)
	if !ok {
		if t.Kind() != reflect.Pointer {
			if _, ok := reflect.PointerTo(t).MethodByName(ValueMethod); ok {
				return reflect.Method{}, newExtractionError(t, ReasonInaccessible,
					fmt.Errorf("%s has a pointer receiver, use *%s as the map key", ValueMethod, t))
			}
		}
		if hasValueField(t) {
			return reflect.Method{}, newExtractionError(t, ReasonNoSuchMethod,
				fmt.Errorf("%s has a %s field but no %s() method", t, ValueMethod, ValueMethod))
		}
		return reflect.Method{}, newExtractionError(t, ReasonNoSuchMethod,
			fmt.Errorf("%s has no %s() method", t, ValueMethod))
	}

	if err := checkAccessorSignature(method.Type); err != nil {
		return reflect.Method{}, newExtractionError(t, ReasonBadSignature, err)
	}
	return method, nil
}

// checkAccessorSignature expects func(recv) T or func(recv) (T, error)
func checkAccessorSignature(ft reflect.Type) error {
	if ft.NumIn() != 1 {
		return fmt.Errorf("%s must take no arguments, has %d", ValueMethod, ft.NumIn()-1)
	}
	switch ft.NumOut() {
	case 1:
		return nil
	case 2:
		if ft.Out(1) != errorType {
			return fmt.Errorf("second result of %s must be error, got %s", ValueMethod, ft.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("%s must return one value, returns %d", ValueMethod, ft.NumOut())
	}
}

func hasValueField(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	_, ok := t.FieldByName(ValueMethod)
	return ok
}
