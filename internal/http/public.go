package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/consultorio/internal/blog"
	"github.com/mrlokans/consultorio/internal/contact"
	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/settingsstore"
)

// Lister reads rows of one resource.
type Lister[T any] interface {
	GetAll(ctx context.Context, f resource.Filter) ([]T, error)
}

// PublicContent is what the public site reads besides settings.
type PublicContent struct {
	Products  Lister[entities.Product]
	BlogPosts Lister[entities.BlogPost]
	Cults     Lister[entities.Cult]
}

// PublicSettings loads settings for public pages without failing.
type PublicSettings interface {
	LoadPublic(ctx context.Context) settingsstore.Settings
}

type PublicController struct {
	content  PublicContent
	settings PublicSettings
}

func NewPublicController(content PublicContent, settings PublicSettings) *PublicController {
	return &PublicController{content: content, settings: settings}
}

// Settings handles GET /api/public/settings.
func (pc *PublicController) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, pc.settings.LoadPublic(c.Request.Context()).Map())
}

// Products handles GET /api/public/products (active only).
func (pc *PublicController) Products(c *gin.Context) {
	products, err := pc.content.Products.GetAll(c.Request.Context(), resource.Filter{
		Eq:      map[string]any{"active": true},
		OrderBy: "name",
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}
	if products == nil {
		products = []entities.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// Cults handles GET /api/public/cults (active only).
func (pc *PublicController) Cults(c *gin.Context) {
	cults, err := pc.content.Cults.GetAll(c.Request.Context(), resource.Filter{
		Eq:      map[string]any{"active": true},
		OrderBy: "date",
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}
	if cults == nil {
		cults = []entities.Cult{}
	}
	c.JSON(http.StatusOK, gin.H{"data": cults})
}

type postSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Author      string     `json:"author,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// BlogList handles GET /api/public/blog (published only, newest first).
func (pc *PublicController) BlogList(c *gin.Context) {
	posts, err := pc.content.BlogPosts.GetAll(c.Request.Context(), resource.Filter{
		Eq:      map[string]any{"published": true},
		OrderBy: "published_at",
		Desc:    true,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	summaries := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, postSummary{
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Summary:     blog.Summary(p),
			Author:      p.Author,
			CoverImage:  p.CoverImage,
			PublishedAt: p.PublishedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// BlogPost handles GET /api/public/blog/:slug.
func (pc *PublicController) BlogPost(c *gin.Context) {
	posts, err := pc.content.BlogPosts.GetAll(c.Request.Context(), resource.Filter{
		Eq: map[string]any{"slug": c.Param("slug"), "published": true},
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}
	if len(posts) == 0 {
		respondNotFound(c, "post")
		return
	}
	c.JSON(http.StatusOK, blog.NewPost(posts[0]))
}

func (pc *PublicController) whatsAppLink(c *gin.Context) (string, bool) {
	message := c.DefaultQuery("message", contact.DefaultWhatsAppMsg)
	link, err := contact.WhatsAppLink(pc.settings.LoadPublic(c.Request.Context()).WhatsAppNumber, message)
	if err != nil {
		if errors.Is(err, contact.ErrInvalidPhone) {
			respondError(c, http.StatusServiceUnavailable, "whatsapp number is not configured")
			return "", false
		}
		respondInternalError(c, err, "whatsapp link")
		return "", false
	}
	return link, true
}

// WhatsApp handles GET /api/public/contact/whatsapp?message=
func (pc *PublicController) WhatsApp(c *gin.Context) {
	link, ok := pc.whatsAppLink(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// WhatsAppQR handles GET /api/public/contact/whatsapp.png?message=&size=
func (pc *PublicController) WhatsAppQR(c *gin.Context) {
	link, ok := pc.whatsAppLink(c)
	if !ok {
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := contact.QRCode(link, size)
	if err != nil {
		respondInternalError(c, err, "whatsapp qr")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
