package utils

import "strings"

// NormalizeTerminalID produces the comparison form of a terminal serial:
// lowercased with all internal whitespace collapsed away, so "ABC 001" and
// "abc001" reconcile to the same registry entry. Only ever used for equality
// checks; the original string is what gets stored and displayed.
func NormalizeTerminalID(serial string) string {
	return strings.ToLower(strings.Join(strings.Fields(serial), ""))
}
