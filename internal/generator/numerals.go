package generator

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/quiz-studio/authoring-service/internal/models"
)

var easternDigits = []rune{'٠', '١', '٢', '٣', '٤', '٥', '٦', '٧', '٨', '٩'}

// FormatNumber renders an integer in the configured numeral system.
func FormatNumber(n int, mode models.NumeralType) string {
	s := strconv.Itoa(n)
	if mode != models.NumeralEastern {
		return s
	}
	return convertDigits(s)
}

func convertDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(easternDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TransformHTML rewrites ASCII digits inside the fragment's text nodes to
// the eastern glyphs. Attributes are left untouched: ids, data-indices and
// src URIs must survive the transform byte for byte. Western mode and
// unparseable fragments return the input unchanged.
func TransformHTML(fragment string, mode models.NumeralType) string {
	if mode != models.NumeralEastern || fragment == "" {
		return fragment
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return fragment
	}
	var b strings.Builder
	for _, n := range nodes {
		walkTextNodes(n)
		if err := html.Render(&b, n); err != nil {
			return fragment
		}
	}
	return b.String()
}

func walkTextNodes(n *html.Node) {
	if n.Type == html.TextNode {
		n.Data = convertDigits(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkTextNodes(c)
	}
}
