// Package di wires the application together with a samber/do container.
package di

import (
	"github.com/samber/do/v2"

	"github.com/vbonduro/shishalog/internal/config"
)

// NewContainer creates the DI container for cfg with all providers
// registered. Services are built lazily on first invoke.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideMetrics)

	// Storage layer
	do.Provide(injector, ProvideSubstrate)
	do.Provide(injector, ProvideShopStore)
	do.Provide(injector, ProvideFlavorStore)
	do.Provide(injector, ProvideSettingsStore)
	do.Provide(injector, ProvideBackupManager)
	do.Provide(injector, ProvideBackupStore)

	// Business services
	do.Provide(injector, ProvideValidator)
	do.Provide(injector, ProvideRecordService)

	// Server
	do.Provide(injector, ProvideRateLimiter)
	do.Provide(injector, ProvideWebServer)
	do.Provide(injector, ProvideHTTPServer)

	return injector
}
