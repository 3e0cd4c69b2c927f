package service

import (
	"context"
	"strings"

	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/cache"
	"github.com/inmovalia/catalogo/internal/catalog/domain"
	"github.com/inmovalia/catalogo/internal/catalog/store"
	obsmetrics "github.com/inmovalia/catalogo/internal/observability/metrics"
	tenantdomain "github.com/inmovalia/catalogo/internal/tenant/domain"
	"github.com/inmovalia/catalogo/internal/tenantctx"
	"github.com/inmovalia/catalogo/internal/translation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Stores      *store.Provider
	Activations store.ActivationRepository
	Tenants     tenantdomain.Service
	Cache       *cache.CatalogCache
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

// Service is the catalog resolver over both storage backends.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	stores      *store.Provider
	activations store.ActivationRepository
	tenants     tenantdomain.Service
	cache       *cache.CatalogCache
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("catalog.service"),
		genID:       p.GenID,
		stores:      p.Stores,
		activations: p.Activations,
		tenants:     p.Tenants,
		cache:       p.Cache,
		metrics:     p.Metrics,
	}
}

func (s *Service) FetchAll(ctx context.Context) (domain.Catalogs, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		// No tenant in scope means no catalogs; there is no cross-tenant
		// browse mode.
		return domain.Catalogs{}, nil
	}

	if _, err := s.tenants.Get(ctx, tenantID.String()); err != nil {
		return nil, err
	}

	gen := s.cache.Begin(tenantID)

	overrides, err := s.overrideMap(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	snapshot := domain.Catalogs{}
	for _, meta := range domain.Kinds() {
		items, err := s.loadKind(ctx, tenantID, meta.Kind, overrides)
		if err != nil {
			// Previous snapshot stays valid; Complete is never reached.
			return nil, err
		}
		snapshot[meta.Kind] = items
	}

	s.cache.Complete(tenantID, gen, snapshot)
	s.metrics.RecordCatalogFetch(ctx, tenantID.String())
	return snapshot, nil
}

func (s *Service) List(ctx context.Context, kind domain.Kind, includeInactive bool) ([]domain.Item, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrTenantRequired
	}
	if _, known := domain.MetaFor(kind); !known {
		return nil, domain.ErrUnknownKind
	}

	overrides, err := s.overrideMap(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items, err := s.loadKind(ctx, tenantID, kind, overrides)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		return items, nil
	}

	visible := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.Active {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

func (s *Service) GetByCode(ctx context.Context, kind domain.Kind, code string) (*domain.Item, bool) {
	snapshot, ok := s.snapshot(ctx)
	if !ok {
		return nil, false
	}
	for _, item := range snapshot[kind] {
		if item.Code == code {
			found := item
			return &found, true
		}
	}
	return nil, false
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Item, bool) {
	snapshot, ok := s.snapshot(ctx)
	if !ok {
		return nil, false
	}
	for _, items := range snapshot {
		for _, item := range items {
			if item.ID == id {
				found := item
				return &found, true
			}
		}
	}
	return nil, false
}

func (s *Service) GetDefault(ctx context.Context, kind domain.Kind) (*domain.Item, bool) {
	snapshot, ok := s.snapshot(ctx)
	if !ok {
		return nil, false
	}
	items := snapshot[kind]
	if len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		if item.IsDefault {
			found := item
			return &found, true
		}
	}
	// No flagged default: the first item in stored order wins,
	// deterministically.
	found := items[0]
	return &found, true
}

func (s *Service) Create(ctx context.Context, kind domain.Kind, req domain.CreateRequest) (*domain.Item, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrTenantRequired
	}
	meta, known := domain.MetaFor(kind)
	if !known {
		return nil, domain.ErrUnknownKind
	}

	tenant, err := s.tenants.Get(ctx, tenantID.String())
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = domain.DeriveCode(name)
	}
	if code == "" {
		return nil, domain.ErrNameRequired
	}

	st, err := s.stores.ForKind(kind)
	if err != nil {
		return nil, err
	}

	existing, err := st.List(ctx, s.db, tenantID, kind, true)
	if err != nil {
		return nil, err
	}
	for _, rec := range existing {
		if rec.Code == code {
			return nil, domain.ErrCodeTaken
		}
	}

	config, err := validateConfig(meta, req.Config)
	if err != nil {
		return nil, err
	}

	// Approval-gated kinds hold new tenant items back until a tenant admin
	// activates them.
	active := true
	if req.Active != nil {
		active = *req.Active
	} else if meta.ApprovalGated {
		active = false
	}

	sortOrder := len(existing)
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	now := time.Now().UTC()
	rec := store.Record{
		ID:          s.genID.Generate(),
		TenantID:    &tenantID,
		Kind:        kind,
		Code:        code,
		Name:        name,
		NamePlural:  trimPtr(req.NamePlural),
		Description: trimPtr(req.Description),
		Icon:        trimPtr(req.Icon),
		Color:       trimPtr(req.Color),
		SortOrder:   sortOrder,
		Active:      active,
		IsDefault:   req.IsDefault != nil && *req.IsDefault,
		Config:      config,
		Extra:       req.Extra,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if meta.Translatable {
		rec.Translations = translation.Strip(translation.Clean(req.Translations), tenant.DefaultLocale)
	}
	if meta.SlugTranslatable {
		rec.SlugTranslations = translation.CleanSlugs(req.SlugTranslations)
	}

	if err := st.Create(ctx, s.db, &rec); err != nil {
		return nil, err
	}

	s.metrics.RecordCatalogMutation(ctx, string(kind), "create")
	s.refresh(ctx, tenantID)

	item := s.toItem(rec, nil)
	return &item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Item, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrTenantRequired
	}

	rec, meta, err := s.findRecord(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if rec.Origin() == domain.OriginGlobal {
		// Content edits on global items are rejected outright, never
		// silently downgraded to a toggle.
		return nil, domain.ErrGlobalReadOnly
	}

	tenant, err := s.tenants.Get(ctx, tenantID.String())
	if err != nil {
		return nil, err
	}

	st, err := s.stores.ForKind(rec.Kind)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		rec.Name = name
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			code = domain.DeriveCode(rec.Name)
		}
		if code != rec.Code {
			existing, err := st.List(ctx, s.db, tenantID, rec.Kind, true)
			if err != nil {
				return nil, err
			}
			for _, other := range existing {
				if other.ID != rec.ID && other.Code == code {
					return nil, domain.ErrCodeTaken
				}
			}
			rec.Code = code
		}
	}
	if req.NamePlural != nil {
		rec.NamePlural = trimPtr(req.NamePlural)
	}
	if req.Description != nil {
		rec.Description = trimPtr(req.Description)
	}
	if req.Icon != nil {
		rec.Icon = trimPtr(req.Icon)
	}
	if req.Color != nil {
		rec.Color = trimPtr(req.Color)
	}
	if req.SortOrder != nil {
		rec.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		rec.Active = *req.Active
	}
	if req.IsDefault != nil {
		rec.IsDefault = *req.IsDefault
	}
	if req.Config != nil {
		config, err := validateConfig(meta, req.Config)
		if err != nil {
			return nil, err
		}
		rec.Config = config
	}
	if req.Translations != nil && meta.Translatable {
		rec.Translations = translation.Strip(translation.Clean(req.Translations), tenant.DefaultLocale)
	}
	if req.SlugTranslations != nil && meta.SlugTranslatable {
		rec.SlugTranslations = translation.CleanSlugs(req.SlugTranslations)
	}
	if req.Extra != nil {
		rec.Extra = req.Extra
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := st.Update(ctx, s.db, rec); err != nil {
		return nil, err
	}

	s.metrics.RecordCatalogMutation(ctx, string(rec.Kind), "update")
	s.refresh(ctx, tenantID)

	item := s.toItem(*rec, nil)
	return &item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ErrTenantRequired
	}

	rec, _, err := s.findRecord(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if rec.Origin() == domain.OriginGlobal {
		return domain.ErrGlobalReadOnly
	}

	st, err := s.stores.ForKind(rec.Kind)
	if err != nil {
		return err
	}
	if err := st.Delete(ctx, s.db, tenantID, rec.Kind, rec.ID); err != nil {
		return err
	}

	s.metrics.RecordCatalogMutation(ctx, string(rec.Kind), "delete")
	s.refresh(ctx, tenantID)
	return nil
}

func (s *Service) Toggle(ctx context.Context, kind domain.Kind, code string, active bool) (*domain.Item, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrTenantRequired
	}
	if _, known := domain.MetaFor(kind); !known {
		return nil, domain.ErrUnknownKind
	}

	st, err := s.stores.ForKind(kind)
	if err != nil {
		return nil, err
	}

	existing, err := st.List(ctx, s.db, tenantID, kind, true)
	if err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	var rec *store.Record
	for i := range existing {
		if existing[i].Code == code {
			rec = &existing[i]
			break
		}
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}

	if rec.Origin() == domain.OriginGlobal {
		now := time.Now().UTC()
		override := &store.ActivationOverride{
			ID:        s.genID.Generate(),
			TenantID:  tenantID,
			Kind:      kind,
			Code:      code,
			Active:    active,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.activations.Upsert(ctx, s.db, override); err != nil {
			return nil, err
		}
		s.metrics.RecordActivationToggle(ctx, string(kind), active)
	} else {
		rec.Active = active
		rec.UpdatedAt = time.Now().UTC()
		if err := st.Update(ctx, s.db, rec); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordCatalogMutation(ctx, string(kind), "toggle")
	s.refresh(ctx, tenantID)

	effective := active
	item := s.toItem(*rec, &effective)
	return &item, nil
}

func (s *Service) Counts(ctx context.Context) (map[domain.Kind]int64, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrTenantRequired
	}

	counts := make(map[domain.Kind]int64)
	for _, meta := range domain.Kinds() {
		if meta.Storage != domain.StorageSeparate {
			continue
		}
		st, err := s.stores.ForKind(meta.Kind)
		if err != nil {
			return nil, err
		}
		count, err := st.Count(ctx, s.db, tenantID, meta.Kind, nil)
		if err != nil {
			return nil, err
		}
		counts[meta.Kind] = count
	}
	return counts, nil
}

func (s *Service) InactiveCount(ctx context.Context, kind domain.Kind) (int64, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return 0, domain.ErrTenantRequired
	}
	st, err := s.stores.ForKind(kind)
	if err != nil {
		return 0, err
	}
	inactive := false
	return st.Count(ctx, s.db, tenantID, kind, &inactive)
}

func (s *Service) snapshot(ctx context.Context) (domain.Catalogs, bool) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, false
	}
	snapshot, ok := s.cache.Get(tenantID)
	if ok {
		s.metrics.RecordCacheHit(ctx)
	} else {
		s.metrics.RecordCacheMiss(ctx)
	}
	return snapshot, ok
}

func (s *Service) loadKind(ctx context.Context, tenantID snowflake.ID, kind domain.Kind, overrides map[string]bool) ([]domain.Item, error) {
	st, err := s.stores.ForKind(kind)
	if err != nil {
		return nil, err
	}

	recs, err := st.List(ctx, s.db, tenantID, kind, true)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(recs))
	for _, rec := range recs {
		var effective *bool
		if rec.Origin() == domain.OriginGlobal {
			if active, ok := overrides[overrideKey(kind, rec.Code)]; ok {
				effective = &active
			}
		}
		items = append(items, s.toItem(rec, effective))
	}
	return items, nil
}

func (s *Service) overrideMap(ctx context.Context, tenantID snowflake.ID) (map[string]bool, error) {
	rows, err := s.activations.ListForTenant(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]bool, len(rows))
	for _, row := range rows {
		overrides[overrideKey(row.Kind, row.Code)] = row.Active
	}
	return overrides, nil
}

// findRecord locates an item by id across every kind visible to the tenant.
// IDs are globally unique, so the first hit is the only hit.
func (s *Service) findRecord(ctx context.Context, tenantID snowflake.ID, id string) (*store.Record, domain.Meta, error) {
	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || itemID == 0 {
		return nil, domain.Meta{}, domain.ErrNotFound
	}

	kinds := domain.Kinds()

	// The cached snapshot usually knows the kind already.
	if snapshot, ok := s.cache.Get(tenantID); ok {
		for kind, items := range snapshot {
			for _, item := range items {
				if item.ID == id {
					meta, _ := domain.MetaFor(kind)
					kinds = []domain.Meta{meta}
					break
				}
			}
		}
	}

	for _, meta := range kinds {
		st, err := s.stores.ForKind(meta.Kind)
		if err != nil {
			return nil, domain.Meta{}, err
		}
		rec, err := st.Get(ctx, s.db, tenantID, meta.Kind, itemID)
		if err != nil {
			return nil, domain.Meta{}, err
		}
		if rec != nil {
			return rec, meta, nil
		}
	}
	return nil, domain.Meta{}, domain.ErrNotFound
}

// refresh rebuilds the tenant snapshot after a mutation. The replacement is
// wholesale; failures only log, leaving the cache invalidated so the next
// read refetches.
func (s *Service) refresh(ctx context.Context, tenantID snowflake.ID) {
	s.cache.Invalidate(tenantID)
	if _, err := s.FetchAll(ctx); err != nil {
		s.log.Warn("catalog refresh after mutation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) toItem(rec store.Record, effectiveActive *bool) domain.Item {
	item := domain.Item{
		ID:               rec.ID.String(),
		Kind:             rec.Kind,
		Code:             rec.Code,
		Name:             rec.Name,
		NamePlural:       rec.NamePlural,
		Description:      rec.Description,
		Icon:             rec.Icon,
		Color:            rec.Color,
		SortOrder:        rec.SortOrder,
		Active:           rec.Active,
		IsDefault:        rec.IsDefault,
		Origin:           rec.Origin(),
		Config:           rec.Config,
		Translations:     rec.Translations,
		SlugTranslations: rec.SlugTranslations,
		Extra:            rec.Extra,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	if rec.TenantID != nil {
		tenantID := rec.TenantID.String()
		item.TenantID = &tenantID
	}
	if effectiveActive != nil {
		item.Active = *effectiveActive
	}
	return item
}

func overrideKey(kind domain.Kind, code string) string {
	return string(kind) + "|" + code
}

func validateConfig(meta domain.Meta, config map[string]any) (map[string]any, error) {
	if len(config) == 0 {
		return nil, nil
	}
	allowed := make(map[string]bool, len(meta.ConfigFields))
	for _, field := range meta.ConfigFields {
		allowed[field] = true
	}
	for key, value := range config {
		if !allowed[key] {
			continue
		}
		switch value.(type) {
		case float64, int, int64:
		default:
			return nil, domain.ErrInvalidConfig
		}
	}
	return config, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
