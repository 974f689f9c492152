// ABOUTME: Alphabetic header labels for grouping by the first character of a name
// ABOUTME: Folds diacritics so that accented initials land under their base letter

package sortkey

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"medialib/collection"
)

// Special header labels
const (
	SymbolLabel = "&"
	DigitLabel  = "#"
	OtherLabel  = "…"
)

// Label is a header label. Keys of this type order by label position.
type Label string

var labels = func() []string {
	out := []string{SymbolLabel, DigitLabel}
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}

	return append(out, OtherLabel)
}()

// Labels returns every header label in display order
func Labels() []string {
	return slices.Clone(labels)
}

// Header returns the header label for text: its upper-case initial with
// diacritics removed, "#" for a digit, "&" for symbols and punctuation, "…"
// for letters outside A-Z, and "" for empty text. Labels map to themselves.
func Header(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if slices.Contains(labels, text) {
		return text
	}

	folded, _, err := transform.String(foldDiacritics(), text)
	if err != nil || folded == "" {
		folded = text
	}

	r := []rune(folded)[0]

	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return string(unicode.ToUpper(r))
	case unicode.IsDigit(r):
		return DigitLabel
	case unicode.IsLetter(r):
		return OtherLabel
	default:
		return SymbolLabel
	}
}

// foldDiacritics builds a fresh transformer; transformers keep state and are not shared
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// LabelCompare orders labels by their position in Labels, with "" first.
// Strings that are not labels sort after every label.
func LabelCompare(a, b string) int {
	return labelIndex(a) - labelIndex(b)
}

func labelIndex(label string) int {
	if label == "" {
		return -1
	}

	if i := slices.Index(labels, label); i >= 0 {
		return i
	}

	return len(labels)
}

// HeaderOf turns any key into its header label
func HeaderOf(key any) Label {
	switch k := key.(type) {
	case nil:
		return ""
	case Label:
		return Label(Header(string(k)))
	case string:
		return Label(Header(k))
	default:
		return Label(Header(fmt.Sprint(k)))
	}
}

// Compare orders keys produced by registered selectors. Labels compare by
// label position; everything else uses collection.DefaultCompare.
func Compare(a, b any) int {
	la, aok := a.(Label)
	lb, bok := b.(Label)

	switch {
	case aok && bok:
		if result := LabelCompare(string(la), string(lb)); result != 0 {
			return result
		}

		return strings.Compare(string(la), string(lb))
	case aok:
		return collection.DefaultCompare(string(la), b)
	case bok:
		return collection.DefaultCompare(a, string(lb))
	default:
		return collection.DefaultCompare(a, b)
	}
}
