// Package features turns a catalog item's free text into the matching corpus
// used by the classifier and the recommendation ranker.
package features

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Features is the extracted view of one (name, description) pair.
type Features struct {
	// Corpus is the lowercase "name description" text.
	Corpus string
	// Words is Corpus reduced to single-space separated alphanumeric runs,
	// padded with a space on each side so " kw " matches whole words only.
	Words string
	// HasDescription is false for a nil, empty or whitespace-only description.
	HasDescription bool
}

// Extract builds Features from a name and optional description.
func Extract(name string, description *string) Features {
	desc := ""
	if description != nil {
		desc = strings.TrimSpace(*description)
	}
	if looksLikeHTML(desc) {
		desc = StripHTML(desc)
	}

	corpus := strings.TrimSpace(Fold(strings.ToLower(name + " " + desc)))
	return Features{
		Corpus:         corpus,
		Words:          " " + NormalizeWords(corpus) + " ",
		HasDescription: strings.TrimSpace(desc) != "",
	}
}

// Fold strips combining marks so "café" matches "cafe".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeWords lowercases s and collapses every non-alphanumeric run to a
// single space.
func NormalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// StripHTML returns the text content of an HTML fragment. Tags are replaced
// by spaces so adjacent block elements do not run together.
func StripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.ReplaceAll(s, ">", "> ")))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}
