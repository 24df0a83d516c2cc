package pattern

import (
	"strings"

	"github.com/okian/quizpattern/internal/domain/model"
)

// Separator joins the symbols of an encoded key.
const Separator = "->"

const escape = '\\'

// Key is the textual encoding of an ordered tuple of answer symbols. The
// encoding is injective: a backslash or a dash inside a symbol is escaped, so
// an unescaped "->" is always a separator. Plain A-D keys read "A->B->C".
type Key string

// NewKey encodes a window of symbols.
func NewKey(symbols []model.Answer) Key {
	var b strings.Builder
	for i, s := range symbols {
		if i > 0 {
			b.WriteString(Separator)
		}
		for _, r := range string(s) {
			if r == escape || r == '-' {
				b.WriteRune(escape)
			}
			b.WriteRune(r)
		}
	}
	return Key(b.String())
}

// ParseKey decodes an encoded key back into its symbols.
func ParseKey(s string) ([]model.Answer, error) {
	if s == "" {
		return nil, ErrMalformedKey
	}
	var (
		out []model.Answer
		cur strings.Builder
	)
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == escape:
			if i+1 >= len(runes) {
				return nil, ErrMalformedKey
			}
			i++
			cur.WriteRune(runes[i])
		case r == '-':
			if i+1 >= len(runes) || runes[i+1] != '>' {
				return nil, ErrMalformedKey
			}
			i++
			out = append(out, model.Answer(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, model.Answer(cur.String()))
	return out, nil
}

// Symbols decodes the key. Keys built with NewKey always decode.
func (k Key) Symbols() []model.Answer {
	s, err := ParseKey(string(k))
	if err != nil {
		return nil
	}
	return s
}

// Len returns the number of symbols in the key.
func (k Key) Len() int { return len(k.Symbols()) }

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }
