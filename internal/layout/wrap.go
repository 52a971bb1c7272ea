package layout

import "strings"

// Wrap breaks text into lines no wider than maxWidth under measure.
//
// Words are whitespace-delimited and accumulated greedily. A word that does
// not fit on its own is placed alone on a line without being split, so it is
// the only case where a line may exceed maxWidth. Empty input yields no lines.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if !strings.ContainsAny(text, "\r\n") && measure(text) <= maxWidth {
		return []string{text}
	}

	lines := make([]string, 0, 1)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// RowHeight is the vertical space a table row of n wrapped lines occupies.
// An empty cell still reserves one line.
func RowHeight(lines int, lineHeight, padding float64) float64 {
	if lines < 1 {
		lines = 1
	}
	return float64(lines)*lineHeight + padding
}
