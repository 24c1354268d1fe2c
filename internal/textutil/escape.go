package textutil

import "strings"

// CollapseEscapes rewrites every backslash-X pair to the bare X, scanning
// left to right. Legacy exports escape separators and enclosures inside
// comment text this way; the reader preserves those pairs, so the collapse
// happens once per imported value. A trailing lone backslash is kept.
func CollapseEscapes(text string) string {
	if !strings.Contains(text, "\\") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) {
			i++
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
