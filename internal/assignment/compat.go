package assignment

// pair keys the compatibility matrix by country and industry code.
type pair struct {
	Country  string
	Industry string
}

// Matrix is an explicit country/industry compatibility table. Pairs default
// to compatible unless marked otherwise; today no real incompatibilities are
// known, so the default matrix is empty.
type Matrix struct {
	incompatible map[pair]string
}

// DefaultMatrix returns a matrix with no incompatible pairs.
func DefaultMatrix() *Matrix {
	return &Matrix{incompatible: make(map[pair]string)}
}

// MarkIncompatible records that a country and industry template must not be
// combined, with a human-readable reason.
func (m *Matrix) MarkIncompatible(country, industry, reason string) {
	m.incompatible[pair{country, industry}] = reason
}

// Check reports whether a country/industry pair may be combined. The second
// return is the incompatibility reason when they may not. Either code may be
// empty; a single layer is always compatible.
func (m *Matrix) Check(country, industry string) (bool, string) {
	if country == "" || industry == "" {
		return true, ""
	}
	if reason, ok := m.incompatible[pair{country, industry}]; ok {
		return false, reason
	}
	return true, ""
}

// CompatibleIndustries filters industries down to those combinable with a
// country.
func (m *Matrix) CompatibleIndustries(country string, industries []string) []string {
	out := make([]string, 0, len(industries))
	for _, ind := range industries {
		if ok, _ := m.Check(country, ind); ok {
			out = append(out, ind)
		}
	}
	return out
}

// CompatibleCountries filters countries down to those combinable with an
// industry.
func (m *Matrix) CompatibleCountries(industry string, countries []string) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		if ok, _ := m.Check(c, industry); ok {
			out = append(out, c)
		}
	}
	return out
}
