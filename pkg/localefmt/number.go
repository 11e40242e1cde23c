// Package localefmt parses the numeric and date text rendered by the CM report tables.
//
// The site mixes two conventions: pt-BR ("1.234,56") for most money columns and en-US
// ("1,234.56") for some quantity columns. None of the functions here return errors,
// malformed text always degrades to a zero value.
package localefmt

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts text written in either regional convention into a float64.
//
//   - both separators present: whichever appears last is the decimal point
//   - only commas: a single comma followed by 1-3 characters is a decimal comma,
//     anything else is thousands grouping
//   - only dots: several dots are thousands grouping, a single dot followed by
//     exactly three digits is thousands grouping ("1.300" is 1300), any other
//     single dot is a decimal point
//
// Empty or unparseable text yields 0.
func ParseNumber(text string) float64 {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		decimals := len(cleaned) - lastComma - 1
		if strings.Count(cleaned, ",") == 1 && decimals >= 1 && decimals <= 3 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 || isThreeDigits(cleaned[lastDot+1:]) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

func isThreeDigits(text string) bool {
	if len(text) != 3 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseInteger is ParseNumber truncated toward zero.
func ParseInteger(text string) int {
	return int(ParseNumber(text))
}

// FirstToken returns the first space separated token of a cell like "12,5 KG".
func FirstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastToken returns the last space separated token of a cell like "12,5 KG".
func LastToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
