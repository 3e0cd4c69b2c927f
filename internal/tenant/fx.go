package tenant

import (
	"github.com/inmovalia/catalogo/internal/tenant/repository"
	"github.com/inmovalia/catalogo/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
