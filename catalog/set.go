package catalog

// keyedSet keeps values by key in insertion order. Putting an existing key
// replaces the value in place. The zero value is ready to use.
type keyedSet[T any] struct {
	keys   []string
	values map[string]T
}

func (s *keyedSet[T]) put(key string, value T) (replaced bool) {
	if s.values == nil {
		s.values = make(map[string]T)
	}
	_, replaced = s.values[key]
	if !replaced {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return replaced
}

func (s *keyedSet[T]) remove(key string) (T, bool) {
	value, ok := s.values[key]
	if !ok {
		return value, false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
	return value, true
}

func (s *keyedSet[T]) get(key string) (T, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *keyedSet[T]) list() []T {
	out := make([]T, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.values[k])
	}
	return out
}

func (s *keyedSet[T]) len() int {
	return len(s.keys)
}

// clone copies the set, passing every value through fn
func (s *keyedSet[T]) clone(fn func(T) T) keyedSet[T] {
	out := keyedSet[T]{
		keys:   make([]string, len(s.keys)),
		values: make(map[string]T, len(s.values)),
	}
	copy(out.keys, s.keys)
	for k, v := range s.values {
		out.values[k] = fn(v)
	}
	return out
}
