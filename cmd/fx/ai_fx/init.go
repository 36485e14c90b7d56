package ai_fx

import (
	"go.uber.org/fx"

	"redbutton/internal/services"
	"redbutton/pkg/config"
)

var Module = fx.Provide(
	provideAIService, provideChatService, provideClientFactory, provideStreamer)

func provideClientFactory() services.ClientFactory {
	return services.DefaultClientFactory
}

func provideStreamer() services.ChatStreamer {
	return services.NewOpenAIStreamer()
}

func provideAIService(cfg *config.Config, factory services.ClientFactory) services.AIServiceInterface {
	return services.NewAIService(cfg, factory)
}

func provideChatService(cfg *config.Config, streamer services.ChatStreamer) services.ChatServiceInterface {
	return services.NewChatService(cfg, streamer)
}
