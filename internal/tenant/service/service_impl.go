package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/inmovalia/catalogo/internal/cache"
	"github.com/inmovalia/catalogo/internal/tenant/domain"
	"github.com/inmovalia/catalogo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tenantCacheTTL = 30 * time.Second

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	genID   *snowflake.Node
	tenants cache.Cache[int64, *domain.Tenant]
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("tenant.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		tenants: cache.NewTTLCache[int64, *domain.Tenant](),
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tenant, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(tenant)
	return &resp, nil
}

func (s *Service) Locales(ctx context.Context, id string) ([]domain.LocaleResponse, error) {
	tenant, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	locales, err := s.repo.ListLocales(ctx, s.db, tenant.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.LocaleResponse, 0, len(locales))
	for _, locale := range locales {
		resp = append(resp, domain.LocaleResponse{
			Code:      locale.Code,
			Name:      locale.Name,
			Position:  locale.Position,
			IsDefault: locale.IsDefault,
		})
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	defaultLocale := strings.TrimSpace(req.DefaultLocale)
	if defaultLocale == "" {
		defaultLocale = "es"
	}

	tenantSlug := slug.Make(name)
	existing, err := s.repo.FindBySlug(ctx, s.db, tenantSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlugConflict
	}

	now := time.Now().UTC()
	record := &domain.Tenant{
		ID:             s.genID.Generate(),
		Name:           name,
		Slug:           tenantSlug,
		DefaultLocale:  defaultLocale,
		FallbackLocale: req.FallbackLocale,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugConflict
		}
		return nil, err
	}

	locales := make([]domain.Locale, 0, len(req.Locales)+1)
	seen := map[string]bool{}
	for i, l := range req.Locales {
		code := strings.ToLower(strings.TrimSpace(l.Code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		locales = append(locales, domain.Locale{
			ID:        s.genID.Generate(),
			TenantID:  record.ID,
			Code:      code,
			Name:      strings.TrimSpace(l.Name),
			Position:  i,
			IsDefault: code == defaultLocale,
			CreatedAt: now,
		})
	}
	if !seen[defaultLocale] {
		locales = append([]domain.Locale{{
			ID:        s.genID.Generate(),
			TenantID:  record.ID,
			Code:      defaultLocale,
			Name:      defaultLocale,
			Position:  0,
			IsDefault: true,
			CreatedAt: now,
		}}, locales...)
	}
	if err := s.repo.ReplaceLocales(ctx, s.db, record.ID, locales); err != nil {
		return nil, err
	}

	s.log.Info("tenant created", zap.String("tenant_id", record.ID.String()), zap.String("slug", record.Slug))

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) resolve(ctx context.Context, id string) (*domain.Tenant, error) {
	tenantID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || tenantID == 0 {
		return nil, domain.ErrInvalidID
	}

	if cached, ok := s.tenants.Get(tenantID.Int64()); ok {
		return cached, nil
	}

	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}

	s.tenants.Set(tenantID.Int64(), tenant, tenantCacheTTL)
	return tenant, nil
}

func toResponse(t *domain.Tenant) domain.Response {
	return domain.Response{
		ID:             t.ID.String(),
		Name:           t.Name,
		Slug:           t.Slug,
		DefaultLocale:  t.DefaultLocale,
		FallbackLocale: t.FallbackLocale,
		Active:         t.Active,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
