package handlers

import (
	"errors"
	"html/template"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/renderer"
	"acenumerik.fr/repositories"
	"acenumerik.fr/services"
	"acenumerik.fr/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BlogHandler serves the public blog.
type BlogHandler struct {
	posts services.IContentService[models.BlogPost]
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(posts services.IContentService[models.BlogPost]) *BlogHandler {
	return &BlogHandler{posts: posts}
}

// List renders the published posts, newest first.
func (h *BlogHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.ListPublic(c.UserContext())
	if err != nil {
		configslog.Log.Error("Blog list failed", zap.Error(err))
		return renderer.Render(c, "errors/500", "layouts/error_layout", fiber.Map{"Title": "Erreur"}, fiber.StatusInternalServerError)
	}
	return renderer.Render(c, "site/blog", "layouts/main", fiber.Map{"Title": "Blog", "Posts": posts})
}

// Show renders one published post with its markdown body.
func (h *BlogHandler) Show(c *fiber.Ctx) error {
	post, err := h.posts.FindPublicOne(c.UserContext(), repositories.WhereEq("slug", c.Params("slug")))
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return renderer.Render(c, "errors/404", "layouts/error_layout", fiber.Map{"Title": "Article introuvable"}, fiber.StatusNotFound)
		}
		configslog.Log.Error("Blog post lookup failed", zap.String("slug", c.Params("slug")), zap.Error(err))
		return renderer.Render(c, "errors/500", "layouts/error_layout", fiber.Map{"Title": "Erreur"}, fiber.StatusInternalServerError)
	}
	body, err := utils.RenderMarkdown(post.Body)
	if err != nil {
		configslog.Log.Warn("Markdown render failed", zap.Uint("postID", post.ID), zap.Error(err))
		body = template.HTML(template.HTMLEscapeString(post.Body))
	}
	return renderer.Render(c, "site/post", "layouts/main", fiber.Map{"Title": post.Title, "Post": post, "Body": body})
}
