package inventory

import (
	"math"
	"strconv"
)

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// FormatAmount formats v with comma thousands separators and a dot decimal
// separator, e.g. 8275000 (0 decimals) => "8,275,000"; 1234.5 (2) => "1,234.50".
// NaN formats as "-".
func FormatAmount(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "-"
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	neg := v < 0
	if neg {
		v = -v
	}
	if decimals < 0 {
		decimals = 0
	}

	s := strconv.FormatFloat(roundFloat(v, decimals), 'f', decimals, 64)
	intPart, fracPart := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, fracPart = s[:i], s[i:]
			break
		}
	}

	if len(intPart) > 3 {
		buf := make([]byte, 0, len(intPart)+len(intPart)/3)
		lead := len(intPart) % 3
		if lead > 0 {
			buf = append(buf, intPart[:lead]...)
		}
		for i := lead; i < len(intPart); i += 3 {
			if len(buf) > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, intPart[i:i+3]...)
		}
		intPart = string(buf)
	}

	if neg {
		return "-" + intPart + fracPart
	}
	return intPart + fracPart
}
