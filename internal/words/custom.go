package words

import (
	"fmt"
	"strings"
	"unicode"
)

// CustomTextSource iterates the words of a fixed text cyclically.
// Next reports wrapped=true on the fetch that loops back to the first
// word after the whole text has been served once.
type CustomTextSource struct {
	words  []string
	index  int
	served int
}

// NewCustomTextSource tokenizes a text into practice words.
func NewCustomTextSource(text string) (*CustomTextSource, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("custom text contains no words")
	}
	return &CustomTextSource{words: tokens}, nil
}

// Next returns the next word in text order, cycling past the end.
func (s *CustomTextSource) Next() (string, bool) {
	wrapped := s.index == 0 && s.served > 0
	word := s.words[s.index]
	s.index = (s.index + 1) % len(s.words)
	s.served++
	return word, wrapped
}

// Len returns the number of words in the text.
func (s *CustomTextSource) Len() int {
	return len(s.words)
}

// Tokenize splits text into lower-cased words with punctuation
// stripped. Tokens that are all punctuation disappear entirely.
func Tokenize(text string) []string {
	var out []string
	for _, field := range strings.Fields(text) {
		var b strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}
