package domain

import "strconv"

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// FormatScore renders a grade with three decimals.
func FormatScore(v *float64) string {
	if v == nil {
		return "None"
	}
	return formatScore(*v)
}
