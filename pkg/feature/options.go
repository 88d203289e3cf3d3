package feature

import "maps"

// Options carries caller-supplied feature options. The requested feature
// records the full set; dependencies installed along with it record only the
// subset the engine designates as shared.
type Options map[string]any

// Clone returns a shallow copy. A nil receiver yields a nil copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return maps.Clone(o)
}

// Filter returns a new Options holding only the listed keys that are present.
func (o Options) Filter(keys ...string) Options {
	out := make(Options, len(keys))
	for _, k := range keys {
		if v, ok := o[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Value returns the option stored under key.
func (o Options) Value(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}
