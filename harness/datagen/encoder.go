package datagen

// Truncate clamps s to at most max characters so a generated value can
// never exceed the column width it is written to. Values already within
// bounds are returned unchanged; an empty string or non-positive max
// yields the empty string. The cut is by character count, not word-aware.
func Truncate(s string, max int) string {
	if s == "" || max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
