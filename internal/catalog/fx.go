package catalog

import (
	"github.com/inmovalia/catalogo/internal/cache"
	"github.com/inmovalia/catalogo/internal/catalog/service"
	"github.com/inmovalia/catalogo/internal/catalog/store"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(store.NewProvider),
	fx.Provide(store.NewActivationRepository),
	fx.Provide(cache.NewCatalogCache),
	fx.Provide(service.New),
)
