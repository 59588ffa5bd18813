package reorder

// Resolve maps each requested name to its position in header.
// The header is scanned left to right and the first exact match wins.
// A name with no match yields a Resolution with Found=false rather than
// an error; the caller decides what to do about it (see Validate).
func Resolve(header, names []string) Mapping {
	m := make(Mapping, len(names))
	for i, name := range names {
		m[i] = Resolution{Name: name, Index: -1}
		for pos, h := range header {
			if h == name {
				m[i].Index = pos
				m[i].Found = true
				break
			}
		}
	}
	return m
}
