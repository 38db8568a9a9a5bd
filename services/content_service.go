package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/repositories"
	"acenumerik.fr/utils"

	"go.uber.org/zap"
)

// ContentServiceError is the error family of the content catalogue.
type ContentServiceError string

func (e ContentServiceError) Error() string { return string(e) }

const (
	ErrContentNotFound       ContentServiceError = "contenu introuvable"
	ErrContentInvalidInput   ContentServiceError = "données invalides"
	ErrContentSaveFailed     ContentServiceError = "le contenu n'a pas pu être enregistré"
	ErrContentDeletionFailed ContentServiceError = "le contenu n'a pas pu être supprimé"
)

// CatalogModel is satisfied by pointers to catalogue entities.
type CatalogModel[T any] interface {
	*T
	Validate() error
	Base() *models.BaseModel
}

// IContentService is the admin CRUD and public read surface of one catalogue table.
type IContentService[T any] interface {
	List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListPublic(ctx context.Context) ([]T, error)
	FindPublicOne(ctx context.Context, scope repositories.Scope) (*T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, userID uint, entity *T) error
	Update(ctx context.Context, userID, id uint, entity *T) error
	Delete(ctx context.Context, id uint) error
}

// ContentOptions configure how public visitors see a table.
type ContentOptions[T any] struct {
	Label       string
	PublicScope repositories.Scope
	PublicOrder string
	// Prepare runs before validation on create and update.
	Prepare func(*T)
}

// ContentService implements IContentService over a base repository.
type ContentService[T any, P CatalogModel[T]] struct {
	repo repositories.IBaseRepository[T]
	opts ContentOptions[T]
}

// NewContentService fills the unset options with visible rows in display order.
func NewContentService[T any, P CatalogModel[T]](repo repositories.IBaseRepository[T], opts ContentOptions[T]) IContentService[T] {
	if opts.PublicScope == nil {
		opts.PublicScope = repositories.WhereEq("visible", true)
	}
	if opts.PublicOrder == "" {
		opts.PublicOrder = "sort_order asc, id asc"
	}
	return &ContentService[T, P]{repo: repo, opts: opts}
}

// List returns one page of every row, hidden ones included.
func (s *ContentService[T, P]) List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	items, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		configslog.Log.Error("Content list failed", zap.String("content", s.opts.Label), zap.Error(err))
		return nil, err
	}
	return queryparams.NewPaginatedResult(items, total, params), nil
}

// ListPublic returns the rows the public site may show, in display order.
func (s *ContentService[T, P]) ListPublic(ctx context.Context) ([]T, error) {
	return s.repo.FindAllUnpaginated(ctx, s.opts.PublicOrder, s.opts.PublicScope)
}

// FindPublicOne returns the first public row matching scope.
func (s *ContentService[T, P]) FindPublicOne(ctx context.Context, scope repositories.Scope) (*T, error) {
	entity, err := s.repo.FindOne(ctx, s.opts.PublicScope, scope)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return entity, nil
}

// Get returns ErrContentNotFound for unknown ids.
func (s *ContentService[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return entity, nil
}

// Create runs the prepare hook and validation before inserting.
func (s *ContentService[T, P]) Create(ctx context.Context, userID uint, entity *T) error {
	if entity == nil {
		return ErrContentInvalidInput
	}
	if err := s.prepare(entity); err != nil {
		return err
	}
	P(entity).Base().ID = 0
	if err := s.repo.Create(models.WithUserID(ctx, userID), entity); err != nil {
		configslog.Log.Error("Content create failed", zap.String("content", s.opts.Label), zap.Uint("userID", userID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrContentSaveFailed, err)
	}
	configslog.SLog.Infof("%s created (ID %d by user %d)", s.opts.Label, P(entity).Base().ID, userID)
	return nil
}

// Update replaces every editable field of the row with entity.
func (s *ContentService[T, P]) Update(ctx context.Context, userID, id uint, entity *T) error {
	if entity == nil || id == 0 {
		return ErrContentInvalidInput
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.prepare(entity); err != nil {
		return err
	}
	base := P(entity).Base()
	prev := P(existing).Base()
	base.ID = id
	base.CreatedAt = prev.CreatedAt
	base.CreatedBy = prev.CreatedBy
	base.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(models.WithUserID(ctx, userID), entity); err != nil {
		configslog.Log.Error("Content update failed", zap.String("content", s.opts.Label), zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrContentSaveFailed, err)
	}
	return nil
}

// Delete soft-deletes the row.
func (s *ContentService[T, P]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContentNotFound
		}
		configslog.Log.Error("Content delete failed", zap.String("content", s.opts.Label), zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrContentDeletionFailed, err)
	}
	return nil
}

func (s *ContentService[T, P]) prepare(entity *T) error {
	if s.opts.Prepare != nil {
		s.opts.Prepare(entity)
	}
	if err := P(entity).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}
	return nil
}

// Catalogue constructors.

// NewTeamMemberService serves the team section.
func NewTeamMemberService(repo repositories.IBaseRepository[models.TeamMember]) IContentService[models.TeamMember] {
	return NewContentService[models.TeamMember](repo, ContentOptions[models.TeamMember]{Label: "Team member"})
}

// NewTestimonialService defaults the rating to 5.
func NewTestimonialService(repo repositories.IBaseRepository[models.Testimonial]) IContentService[models.Testimonial] {
	return NewContentService[models.Testimonial](repo, ContentOptions[models.Testimonial]{
		Label: "Testimonial",
		Prepare: func(t *models.Testimonial) {
			if t.Rating == 0 {
				t.Rating = 5
			}
		},
	})
}

// NewFAQService uses the default public listing.
func NewFAQService(repo repositories.IBaseRepository[models.FAQ]) IContentService[models.FAQ] {
	return NewContentService[models.FAQ](repo, ContentOptions[models.FAQ]{Label: "FAQ"})
}

// NewPricingPlanService defaults to euros billed monthly.
func NewPricingPlanService(repo repositories.IBaseRepository[models.PricingPlan]) IContentService[models.PricingPlan] {
	return NewContentService[models.PricingPlan](repo, ContentOptions[models.PricingPlan]{
		Label: "Pricing plan",
		Prepare: func(p *models.PricingPlan) {
			if p.Currency == "" {
				p.Currency = "EUR"
			}
			if p.Period == "" {
				p.Period = "month"
			}
		},
	})
}

// NewTrustedClientService serves the trusted-clients strip.
func NewTrustedClientService(repo repositories.IBaseRepository[models.TrustedClient]) IContentService[models.TrustedClient] {
	return NewContentService[models.TrustedClient](repo, ContentOptions[models.TrustedClient]{Label: "Trusted client"})
}

// NewJobService derives the slug from the title. Only published jobs are public.
func NewJobService(repo repositories.IBaseRepository[models.Job]) IContentService[models.Job] {
	return NewContentService[models.Job](repo, ContentOptions[models.Job]{
		Label:       "Job",
		PublicScope: repositories.WhereEq("published", true),
		PublicOrder: "created_at desc",
		Prepare: func(j *models.Job) {
			if j.Slug == "" {
				j.Slug = utils.Slugify(j.Title)
			} else {
				j.Slug = utils.Slugify(j.Slug)
			}
		},
	})
}

// NewBlogPostService derives the slug and stamps PublishedAt on first publication.
func NewBlogPostService(repo repositories.IBaseRepository[models.BlogPost]) IContentService[models.BlogPost] {
	return NewContentService[models.BlogPost](repo, ContentOptions[models.BlogPost]{
		Label:       "Blog post",
		PublicScope: repositories.WhereEq("published", true),
		PublicOrder: "published_at desc",
		Prepare: func(p *models.BlogPost) {
			if p.Slug == "" {
				p.Slug = utils.Slugify(p.Title)
			} else {
				p.Slug = utils.Slugify(p.Slug)
			}
			if p.Published && p.PublishedAt == nil {
				now := time.Now().UTC()
				p.PublishedAt = &now
			}
		},
	})
}

// NewAppointmentTypeService lists active types publicly, shortest first.
func NewAppointmentTypeService(repo repositories.IBaseRepository[models.AppointmentType]) IContentService[models.AppointmentType] {
	return NewContentService[models.AppointmentType](repo, ContentOptions[models.AppointmentType]{
		Label:       "Appointment type",
		PublicScope: repositories.WhereEq("is_active", true),
		PublicOrder: "duration_minutes asc, name asc",
		Prepare: func(t *models.AppointmentType) {
			if t.Currency == "" {
				t.Currency = "EUR"
			}
		},
	})
}
