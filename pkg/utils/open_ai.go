package utils

import (
	openai "github.com/sashabaranov/go-openai"
)

// NewCompletionClient builds an OpenAI client for the given API key.
// Callers holding a personal key pass it explicitly; there is no shared
// mutable client to re-initialize.
func NewCompletionClient(apiKey string) *openai.Client {
	return openai.NewClient(apiKey)
}
