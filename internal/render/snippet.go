package render

import (
	"fmt"
	"html"
	"strings"
)

// Snippet is an embeddable HTML fragment holding one rendered row.
// Div is the root element with the inline SVG; HTML wraps it with a
// heading for direct page substitution.
type Snippet struct {
	ID    string
	Title string
	Div   string
	HTML  string
}

// NewSnippet wraps an encoded SVG document in a snippet
func NewSnippet(id, title string, svg []byte) Snippet {
	body := stripXMLHeader(string(svg))
	div := fmt.Sprintf("<div id=\"%s\" class=\"bullet-row\">%s</div>", html.EscapeString(id), body)
	complete := fmt.Sprintf(`<div class="bullet-item">
	<h4>%s</h4>
	%s
</div>`, html.EscapeString(title), div)
	return Snippet{ID: id, Title: title, Div: div, HTML: complete}
}

// stripXMLHeader drops any leading <?xml ...?> declaration
func stripXMLHeader(svg string) string {
	s := strings.TrimSpace(svg)
	if strings.HasPrefix(s, "<?xml") {
		if end := strings.Index(s, "?>"); end >= 0 {
			s = strings.TrimSpace(s[end+2:])
		}
	}
	return s
}
