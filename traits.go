// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

// TraitMatches implements the hard-filter-traits match rules:
//
//   - scalar vs scalar: equal
//   - scalar vs list: scalar ∈ list
//   - list vs scalar: scalar ∈ list
//   - list vs list: non-empty intersection
//   - if the server lacks the trait name, no match, unless the required
//     value is boolean false, in which case absence is equivalent to false.
func TraitMatches(required TraitValue, serverValue TraitValue, serverHasTrait bool) bool {
	if !serverHasTrait {
		return required.Bool != nil && !*required.Bool
	}
	switch {
	case required.IsList() && serverValue.IsList():
		return stringListsIntersect(required.StrList, serverValue.StrList)
	case required.IsList() && !serverValue.IsList():
		return stringInList(serverValue.String(), required.StrList)
	case !required.IsList() && serverValue.IsList():
		return stringInList(required.String(), serverValue.StrList)
	default:
		return scalarEquals(required, serverValue)
	}
}

func scalarEquals(a, b TraitValue) bool {
	if a.Bool != nil && b.Bool != nil {
		return *a.Bool == *b.Bool
	}
	// Compare across bool/string scalar representations the same way the
	// source trait JSON would, e.g. {t: "true"} vs {t: true}.
	return a.String() == b.String()
}

func stringInList(s string, list []string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func stringListsIntersect(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

// TraitsSatisfied reports whether server satisfies every required trait.
func TraitsSatisfied(required Traits, server Traits) bool {
	for name, requiredValue := range required {
		serverValue, ok := server[name]
		if !TraitMatches(requiredValue, serverValue, ok) {
			return false
		}
	}
	return true
}

// MissingTraits returns the names of required traits the server fails to
// satisfy, for use in rejection-reason messages.
func MissingTraits(required Traits, server Traits) []string {
	var missing []string
	for name, requiredValue := range required {
		serverValue, ok := server[name]
		if !TraitMatches(requiredValue, serverValue, ok) {
			missing = append(missing, name)
		}
	}
	return missing
}
