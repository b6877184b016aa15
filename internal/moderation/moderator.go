// Package moderation masks configured words in chat text.
package moderation

import (
	"slices"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// DefaultMask replaces every rune of a censored word.
const DefaultMask = '*'

// Moderator finds censored words with an Aho-Corasick automaton. Matching
// ignores case, punctuation, spaces and common digit substitutions, so
// "B.4.d" matches "bad".
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewModerator builds a moderator for words. It returns nil when no usable
// word is given; a nil *Moderator leaves text untouched.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	keys := make([]string, 0, len(words))
	for _, w := range words {
		if norm := string(normalizeRunes([]rune(w))); norm != "" {
			keys = append(keys, norm)
		}
	}
	keys = lo.Uniq(keys)
	if len(keys) == 0 {
		return nil, nil
	}
	slices.Sort(keys)

	patterns := lo.Map(keys, func(k string, _ int) []rune { return []rune(k) })
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	if mask == 0 {
		mask = DefaultMask
	}
	return &Moderator{matcher: m, mask: mask}, nil
}

// Censor masks every occurrence of a censored word, keeping the noise
// characters inside the match masked too and everything else intact.
func (m *Moderator) Censor(text string) string {
	if m == nil || strings.TrimSpace(text) == "" {
		return text
	}

	orig := []rune(text)
	norm, index := normalizeWithIndex(orig)
	if len(norm) == 0 {
		return text
	}

	terms := m.matcher.MultiPatternSearch(norm, false)
	if len(terms) == 0 {
		return text
	}
	for _, term := range terms {
		end := term.Pos + len(term.Word)
		if term.Pos < 0 || end > len(index) {
			continue
		}
		for i := index[term.Pos]; i <= index[end-1]; i++ {
			orig[i] = m.mask
		}
	}
	return string(orig)
}

// normalizeWithIndex returns the searchable runes and, for each of them, its
// position in the original text.
func normalizeWithIndex(orig []rune) ([]rune, []int) {
	norm := make([]rune, 0, len(orig))
	index := make([]int, 0, len(orig))
	for i, r := range orig {
		r = unleet(r)
		if isNoise(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		index = append(index, i)
	}
	return norm, index
}

func normalizeRunes(in []rune) []rune {
	norm, _ := normalizeWithIndex(in)
	return norm
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
