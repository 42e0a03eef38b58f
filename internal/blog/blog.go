package blog

import (
	"bytes"
	"html/template"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/mrlokans/consultorio/internal/entities"
)

// Raw HTML in post bodies is escaped; WithUnsafe is not set.
var renderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Render converts a markdown body to HTML. On a conversion error the source
// is returned HTML-escaped.
func Render(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(markdown))
	}
	return template.HTML(buf.String())
}

// Post is the public view of a published blog post.
type Post struct {
	entities.BlogPost
	HTML template.HTML `json:"html"`
}

func NewPost(p entities.BlogPost) Post {
	return Post{BlogPost: p, HTML: Render(p.Content)}
}

const excerptRunes = 200

// Summary returns the stored excerpt, or the first runes of the body.
func Summary(p entities.BlogPost) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	if utf8.RuneCountInString(p.Content) <= excerptRunes {
		return p.Content
	}
	return string([]rune(p.Content)[:excerptRunes]) + "…"
}

// Slug derives a URL slug from a title: lowercase ASCII words joined by
// hyphens, accents folded ("Oração da Manhã" becomes "oracao-da-manha").
func Slug(title string) string {
	return slug.Make(title)
}
