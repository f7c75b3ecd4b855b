package inject

// MaskPolicy decides which exported values are marked sensitive.
type MaskPolicy struct {
	publicNames    map[string]struct{}
	publicValues   map[string]struct{}
	publicNumerics bool
}

// NewMaskPolicy builds a policy. Variables named in publicNames, values equal
// to one of publicValues and, when publicNumerics is set, all-digit values are
// left unmasked. Everything else is masked.
func NewMaskPolicy(publicNames, publicValues []string, publicNumerics bool) MaskPolicy {
	p := MaskPolicy{
		publicNames:    make(map[string]struct{}, len(publicNames)),
		publicValues:   make(map[string]struct{}, len(publicValues)),
		publicNumerics: publicNumerics,
	}
	for _, n := range publicNames {
		p.publicNames[n] = struct{}{}
	}
	for _, v := range publicValues {
		p.publicValues[v] = struct{}{}
	}
	return p
}

// Sensitive reports whether the value exported under name must be masked.
func (p MaskPolicy) Sensitive(name, value string) bool {
	if _, ok := p.publicNames[name]; ok {
		return false
	}
	if _, ok := p.publicValues[value]; ok {
		return false
	}
	if p.publicNumerics && isNumeric(value) {
		return false
	}
	return true
}

// isNumeric reports whether s is one or more ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
