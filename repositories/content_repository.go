package repositories

import (
	"acenumerik.fr/configs"
	"acenumerik.fr/models"
)

// Catalogue tables share the base repository; only the sort and search
// columns differ.

// NewTeamMemberRepository sorts by display order, name or creation date.
func NewTeamMemberRepository() IBaseRepository[models.TeamMember] {
	r := NewBaseRepository[models.TeamMember](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"order": "sort_order", "name": "name", "created_at": "created_at"}, "order")
	r.SetSearchColumns("name", "role")
	return r
}

// NewTestimonialRepository sorts by display order, rating or creation date.
func NewTestimonialRepository() IBaseRepository[models.Testimonial] {
	r := NewBaseRepository[models.Testimonial](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"order": "sort_order", "rating": "rating", "created_at": "created_at"}, "order")
	r.SetSearchColumns("author", "company", "quote")
	return r
}

// NewFAQRepository sorts by display order or category.
func NewFAQRepository() IBaseRepository[models.FAQ] {
	r := NewBaseRepository[models.FAQ](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"order": "sort_order", "category": "category", "created_at": "created_at"}, "order")
	r.SetSearchColumns("question", "answer")
	return r
}

// NewPricingPlanRepository sorts by display order or price.
func NewPricingPlanRepository() IBaseRepository[models.PricingPlan] {
	r := NewBaseRepository[models.PricingPlan](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"order": "sort_order", "price": "price_cents", "created_at": "created_at"}, "order")
	r.SetSearchColumns("name")
	return r
}

// NewTrustedClientRepository sorts by display order or name.
func NewTrustedClientRepository() IBaseRepository[models.TrustedClient] {
	r := NewBaseRepository[models.TrustedClient](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"order": "sort_order", "name": "name", "created_at": "created_at"}, "order")
	r.SetSearchColumns("name")
	return r
}

// NewJobRepository sorts by title or creation date.
func NewJobRepository() IBaseRepository[models.Job] {
	r := NewBaseRepository[models.Job](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"title": "title", "created_at": "created_at"}, "created_at")
	r.SetSearchColumns("title", "location")
	return r
}

// NewBlogPostRepository sorts by publication date, title or creation date.
func NewBlogPostRepository() IBaseRepository[models.BlogPost] {
	r := NewBaseRepository[models.BlogPost](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"title": "title", "published_at": "published_at", "created_at": "created_at"}, "published_at")
	r.SetSearchColumns("title", "excerpt")
	return r
}

// NewAppointmentTypeRepository sorts by duration, name or creation date.
func NewAppointmentTypeRepository() IBaseRepository[models.AppointmentType] {
	r := NewBaseRepository[models.AppointmentType](configs.GetDB())
	r.SetAllowedSortColumns(map[string]string{"name": "name", "duration": "duration_minutes", "created_at": "created_at"}, "name")
	r.SetSearchColumns("name", "description")
	return r
}
