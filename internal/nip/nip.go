// Package nip validates Polish tax identification numbers (NIP).
//
// A NIP is 10 digits; the last digit is a checksum computed as the
// weighted sum of the first nine digits modulo 11. A modulo result of 10
// can never match a single digit, so such numbers are always invalid.
package nip

import "strings"

var weights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// Clean strips the separators commonly typed into NIP fields.
func Clean(nip string) string {
	nip = strings.ReplaceAll(nip, " ", "")
	return strings.ReplaceAll(nip, "-", "")
}

// Valid reports whether the given NIP passes the checksum. Spaces and
// hyphens anywhere in the input are ignored. Malformed input is simply
// invalid, never an error.
func Valid(nip string) bool {
	cleaned := Clean(nip)
	if len(cleaned) != 10 {
		return false
	}

	sum := 0
	for i, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i < 9 {
			sum += d * weights[i]
		} else {
			return sum%11 == d
		}
	}
	return false
}
