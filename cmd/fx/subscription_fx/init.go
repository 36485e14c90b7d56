package subscription_fx

import (
	"go.uber.org/fx"

	"redbutton/internal/repositories"
	"redbutton/internal/services"
	"redbutton/pkg/config"
)

var Module = fx.Provide(
	provideSubscriptionService, provideCatalog)

// provideCatalog resolves the billing price ids at startup. The app does not
// come up if the configured products cannot be resolved.
func provideCatalog(cfg *config.Config) (*services.StripeCatalog, error) {
	return services.ResolveStripeCatalog(cfg)
}

func provideSubscriptionService(
	cfg *config.Config,
	catalog *services.StripeCatalog,
	userDataRepo repositories.UserDataRepository,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(cfg, catalog, userDataRepo)
}
