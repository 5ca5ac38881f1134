package normalize

import (
	"fmt"
	"strings"
)

// IDFormatter turns a row serial into a player id.
type IDFormatter func(serial string) string

// Id format names accepted by FormatterFor.
const (
	FormatPadded   = "padded"
	FormatPrefixed = "prefixed"
)

// PaddedID renders "P" plus the serial zero-padded to three digits (P007, P1234).
func PaddedID(serial string) string {
	serial = strings.TrimSpace(serial)
	if len(serial) < 3 {
		serial = strings.Repeat("0", 3-len(serial)) + serial
	}
	return "P" + serial
}

// PrefixedID renders "CSV" plus the serial as-is.
func PrefixedID(serial string) string {
	return "CSV" + strings.TrimSpace(serial)
}

// FormatterFor resolves a configured format name.
func FormatterFor(name string) (IDFormatter, error) {
	switch name {
	case FormatPadded, "":
		return PaddedID, nil
	case FormatPrefixed:
		return PrefixedID, nil
	default:
		return nil, fmt.Errorf("unknown id format %q", name)
	}
}
