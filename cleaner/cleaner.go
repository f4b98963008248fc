package cleaner

import "strings"
import "unicode"

import "golang.org/x/text/unicode/norm"

// Clean folds accented letters to their base letter, drops every character that is
// not an ASCII letter or whitespace, collapses whitespace runs into one space, trims
// and lowercases. The output only ever contains [a-z ] and Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var space bool
	for _, r := range norm.NFD.String(text) {
		switch {
		case 'a' <= r && r <= 'z':
		case 'A' <= r && r <= 'Z':
			r += 'a' - 'A'
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		default:
			// combining marks, digits and punctuation vanish without splitting words
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
