// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package typemap

import "strings"

// StripMoney normalizes a PostgreSQL MONEY textual representation (which may
// carry a currency symbol and locale-specific separators) down to a plain
// decimal string suitable for Decimal(string).
func StripMoney(text string) string {
	var b strings.Builder
	hasDot, hasComma := false, false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '.':
			hasDot = true
			b.WriteRune(r)
		case r == ',':
			hasComma = true
			b.WriteRune(r)
		}
	}
	kept := b.String()

	switch {
	case hasDot && hasComma:
		return strings.ReplaceAll(kept, ",", "")
	case hasComma:
		return strings.Replace(kept, ",", ".", 1)
	default:
		return kept
	}
}
