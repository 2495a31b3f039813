package services

import (
	"strconv"
	"strings"
)

const (
	// accessCodeSeed is the virtual predecessor of the very first group's
	// code: the first code ever minted is its successor, "000001".
	accessCodeSeed = "000000"

	accessCodeWidth = 6
)

// NextAccessCode returns the strictly-next group access code after prev:
// base36-decode, increment, re-encode, left-pad with '0' to at least six
// characters. Codes keep growing past six characters once the base36 counter
// overflows that width; leading zeros are never lost below it.
func NextAccessCode(prev string) string {
	prev = strings.ToLower(strings.TrimSpace(prev))
	if prev == "" {
		prev = accessCodeSeed
	}
	n, err := strconv.ParseUint(prev, 36, 64)
	if err != nil {
		n = 0
	}
	code := strconv.FormatUint(n+1, 36)
	if len(code) < accessCodeWidth {
		code = strings.Repeat("0", accessCodeWidth-len(code)) + code
	}
	return code
}
