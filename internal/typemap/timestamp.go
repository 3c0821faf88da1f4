// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package typemap

import (
	"regexp"
	"strings"
	"time"
)

// tstzLayout matches "YYYY-MM-DD HH:MM:SS[.fraction]±HH:MM". The ".999999999"
// run is Go's convention for an optional fractional-second component: it is
// simply omitted from matching when the value has no decimal point.
const tstzLayout = "2006-01-02 15:04:05.999999999-07:00"

// bareOffsetRe matches a trailing offset with no minutes component, e.g.
// "+05" or "-08", but not "+05:30".
var bareOffsetRe = regexp.MustCompile(`^[+-]\d{2}$`)

// NormalizeTstz parses a TIMESTAMPTZ textual value and re-renders it in UTC.
// A bare ±HH offset (exactly sign + two digits) is expanded to ±HH:00 and
// retried. On any parse failure the input is returned unchanged. Idempotent
// on inputs it successfully parses: a second pass over a no-offset output
// fails to parse (by construction) and is returned unchanged.
func NormalizeTstz(text string) string {
	hasFraction := strings.Contains(text, ".")

	if t, ok := parseTstz(text); ok {
		return formatTstz(t, hasFraction)
	}

	if len(text) > 10 {
		if idx := strings.LastIndexAny(text[10:], "+-"); idx != -1 {
			offset := text[10+idx:]
			if bareOffsetRe.MatchString(offset) {
				if t, ok := parseTstz(text + ":00"); ok {
					return formatTstz(t, hasFraction)
				}
			}
		}
	}

	return text
}

func parseTstz(s string) (time.Time, bool) {
	t, err := time.Parse(tstzLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatTstz(t time.Time, hasFraction bool) string {
	utc := t.UTC()
	if hasFraction {
		return utc.Format("2006-01-02 15:04:05.000000")
	}
	return utc.Format("2006-01-02 15:04:05")
}
