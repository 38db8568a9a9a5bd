package handlers

import (
	"context"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/flashmessages"
	"acenumerik.fr/pkg/renderer"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Catalog groups the public read side of the content tables.
type Catalog struct {
	Team           services.IContentService[models.TeamMember]
	Testimonials   services.IContentService[models.Testimonial]
	FAQs           services.IContentService[models.FAQ]
	Pricing        services.IContentService[models.PricingPlan]
	TrustedClients services.IContentService[models.TrustedClient]
}

// Block is one rendered homepage section.
type Block struct {
	Section models.Section
	Data    models.SectionPayload
	Items   any
}

// HomeHandler renders the homepage from the section configuration.
type HomeHandler struct {
	sections services.ISectionService
	catalog  Catalog
}

// NewHomeHandler creates a HomeHandler.
func NewHomeHandler(sections services.ISectionService, catalog Catalog) *HomeHandler {
	return &HomeHandler{sections: sections, catalog: catalog}
}

// Home renders the sections visible to the current role.
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	flash, _ := flashmessages.GetFlashMessages(c)
	blocks := h.Blocks(c.UserContext(), h.sections.VisibleSections(middlewares.CurrentRole(c)))

	data := fiber.Map{
		"Title":    "ace numérik",
		"Blocks":   blocks,
		"FormData": flashmessages.GetFlashFormData(c),
	}
	renderer.SetFlashMessages(data, flash)
	return renderer.Render(c, "site/home", "layouts/main", data)
}

// Blocks attaches each section's payload and catalogue rows. A catalogue
// failure renders the section without items.
func (h *HomeHandler) Blocks(ctx context.Context, sections []models.Section) []Block {
	blocks := make([]Block, 0, len(sections))
	for _, sec := range sections {
		payload, _ := h.sections.Data(sec.ID)
		block := Block{Section: sec, Data: payload}
		items, err := h.items(ctx, sec.Type, payload)
		if err != nil {
			configslog.Log.Warn("Section items unavailable", zap.String("section", sec.ID), zap.Error(err))
		}
		block.Items = items
		blocks = append(blocks, block)
	}
	return blocks
}

func (h *HomeHandler) items(ctx context.Context, t models.SectionType, payload models.SectionPayload) (any, error) {
	switch t {
	case models.SectionTeam:
		if h.catalog.Team == nil {
			return nil, nil
		}
		members, err := h.catalog.Team.ListPublic(ctx)
		if err != nil {
			return nil, err
		}
		if p, ok := payload.(models.TeamContent); ok && len(p.MemberIDs) > 0 {
			return pickMembers(members, p.MemberIDs), nil
		}
		return members, nil
	case models.SectionTestimonials:
		if h.catalog.Testimonials == nil {
			return nil, nil
		}
		testimonials, err := h.catalog.Testimonials.ListPublic(ctx)
		if err != nil {
			return nil, err
		}
		if p, ok := payload.(models.TestimonialsContent); ok && p.Limit > 0 && len(testimonials) > p.Limit {
			testimonials = testimonials[:p.Limit]
		}
		return testimonials, nil
	case models.SectionFAQ:
		if h.catalog.FAQs == nil {
			return nil, nil
		}
		faqs, err := h.catalog.FAQs.ListPublic(ctx)
		if err != nil {
			return nil, err
		}
		if p, ok := payload.(models.FAQContent); ok && p.Category != "" {
			filtered := faqs[:0]
			for _, f := range faqs {
				if f.Category == p.Category {
					filtered = append(filtered, f)
				}
			}
			faqs = filtered
		}
		return faqs, nil
	case models.SectionServices:
		if h.catalog.Pricing == nil {
			return nil, nil
		}
		return h.catalog.Pricing.ListPublic(ctx)
	case models.SectionTrustedClients:
		if h.catalog.TrustedClients == nil {
			return nil, nil
		}
		return h.catalog.TrustedClients.ListPublic(ctx)
	}
	return nil, nil
}

// pickMembers keeps the order given by ids.
func pickMembers(members []models.TeamMember, ids []uint) []models.TeamMember {
	byID := make(map[uint]models.TeamMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	out := make([]models.TeamMember, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out
}
