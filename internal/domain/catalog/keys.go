package catalog

import "strings"

// NormalizeKey derives the canonical key from a vendor display name: outer
// whitespace trimmed, inner runs of whitespace collapsed to one space, casing
// kept. Equal names in the CODE and PROD catalogs give equal keys.
func NormalizeKey(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
