// Package htmltomarkdown turns the HTML fragments of story payloads into
// plain article text.
//
// The html-to-markdown engine does the parsing, node removal and whitespace
// collapsing. No markdown syntax is emitted and nothing is escaped, so text
// such as "5*3", "in_the" or "1. Dhaka" comes out as written.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/fwojciec/newsdigest"
	"golang.org/x/net/html"
)

// Ensure Converter implements newsdigest.Converter at compile time.
var _ newsdigest.Converter = (*Converter)(nil)

// Converter extracts the text of story markup. Block elements become
// paragraphs separated by a blank line; inline elements keep only their text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithEscapeMode(converter.EscapeModeDisabled),
		converter.WithPlugins(
			base.NewBasePlugin(),
			&plainText{},
		),
	)
	return &Converter{conv: conv}
}

// Convert returns the text of an HTML fragment.
func (c *Converter) Convert(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(fragment)
	if err != nil {
		return "", err
	}

	return result, nil
}

// plainText replaces the commonmark renderers: line breaks become newlines,
// figures and captions are dropped, and the entities the base plugin writes
// for angle brackets are turned back into characters.
type plainText struct{}

func (p *plainText) Name() string { return "plaintext" }

func (p *plainText) Init(conv *converter.Converter) error {
	conv.Register.RendererFor("br", converter.TagTypeInline, renderBreak, converter.PriorityStandard)
	conv.Register.TagType("figure", converter.TagTypeRemove, converter.PriorityStandard)
	conv.Register.TagType("figcaption", converter.TagTypeRemove, converter.PriorityStandard)
	conv.Register.PostRenderer(restoreBrackets, converter.PriorityLate)
	return nil
}

func renderBreak(_ converter.Context, w converter.Writer, _ *html.Node) converter.RenderStatus {
	w.WriteRune('\n')
	return converter.RenderSuccess
}

var bracketReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">")

func restoreBrackets(_ converter.Context, content []byte) []byte {
	return []byte(bracketReplacer.Replace(string(content)))
}
