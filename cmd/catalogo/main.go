package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/inmovalia/catalogo/internal/config"
	"github.com/inmovalia/catalogo/internal/migration"
	"github.com/inmovalia/catalogo/internal/observability"
	"github.com/inmovalia/catalogo/internal/server"
	"github.com/inmovalia/catalogo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
