package models

// Filters maps filter keys to scalar values. An absent or empty value means
// "no constraint" and the key is dropped from query parameters.
type Filters map[string]string

// Merge returns a copy of f shallow-overwritten with patch, last write wins
// per key. Neither input is mutated.
func (f Filters) Merge(patch Filters) Filters {
	out := f.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Sort describes the requested ordering of a list call.
type Sort struct {
	By        string
	Ascending bool
}
