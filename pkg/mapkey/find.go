package mapkey

import "reflect"

// FindMapKey returns the single map key annotation among the annotations of
// one provider. It reports false when there is none, when there is more than
// one, when an annotation key is itself not comparable, or when an unwrapping
// key has no usable Value accessor or its key type is not comparable. Annotations that are not map keys are ignored.
//
// Unwrapper keys are accepted without calling UnwrapKey.
func (r *Registry) FindMapKey(annotations ...any) (any, bool) {
	var found any
	for _, annotation := range annotations {
		if annotation == nil {
			continue
		}
		t := reflect.TypeOf(annotation)
		mode, ok := r.Mode(t)
		if !ok {
			continue
		}
		if found != nil {
			return nil, false
		}
		if mode == UseAnnotation && !t.Comparable() {
			return nil, false
		}
		if mode == UnwrapValue {
			if _, isUnwrapper := annotation.(Unwrapper); !isUnwrapper {
				method, err := accessor(t)
				if err != nil {
					return nil, false
				}
				if !method.Type.Out(0).Comparable() {
					return nil, false
				}
			}
		}
		found = annotation
	}
	return found, found != nil
}

// FindMapKey selects the map key annotation using the default registry
func FindMapKey(annotations ...any) (any, bool) {
	return DefaultRegistry().FindMapKey(annotations...)
}
