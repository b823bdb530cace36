package segment

// Unicode range predicates for the CJK scripts. Space-delimited languages
// use the general letter/number categories instead (see space.go).

// isHan reports whether r is a CJK Unified Ideograph (including Extension A).
func isHan(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

// isKana reports whether r is hiragana or katakana (full-width, phonetic
// extensions, or half-width).
func isKana(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x31F0 && r <= 0x31FF: // katakana phonetic extensions
		return true
	case r >= 0xFF65 && r <= 0xFF9F: // half-width katakana
		return true
	}
	return false
}
