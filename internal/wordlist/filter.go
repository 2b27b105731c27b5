package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns the filter applied to lang's word list. Every
// language drops words a typist could not enter as one word; English is
// further restricted to lowercase ASCII.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return lowerASCII
	default:
		return letters
	}
}

func lowerASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if ch := word[i]; ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// letters accepts words made of letters and combining marks, with
// apostrophes and hyphens allowed between them.
func letters(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 {
		return false
	}
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
		case (r == '\'' || r == '’' || r == '-') && i > 0 && i < len(runes)-1:
		default:
			return false
		}
	}
	return true
}
