package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbutton/internal/models/request_models"
	"redbutton/pkg/utils"
)

type fakeStreamer struct {
	chunks []string
	err    error

	lastRequest openai.ChatCompletionRequest
	apiKey      string
}

func (f *fakeStreamer) StreamChat(_ context.Context, apiKey string, request openai.ChatCompletionRequest, onDelta func(string)) (string, error) {
	f.apiKey = apiKey
	f.lastRequest = request

	var full string
	for _, chunk := range f.chunks {
		full += chunk
		onDelta(chunk)
	}
	if f.err != nil {
		return full, f.err
	}
	return full, nil
}

func chatRequest() request_models.InitiativeChatRequest {
	return request_models.InitiativeChatRequest{
		Context: request_models.ChatContext{
			Goal:       request_models.ContextGoal{Text: "Personal Well-being", Description: "Stay healthy"},
			Initiative: request_models.ContextInitiative{Text: "Run three times a week"},
			CheckIns: []request_models.ContextCheckIn{
				{Content: "Ran 5k", Timestamp: "2026-08-20T10:00:00Z"},
			},
		},
		Message: "How do I keep this up?",
	}
}

func TestInitiativeChatExtractsCheckIns(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{
		"Keep going! <check_in>Ran ", "again today.</check_in> You got this.",
	}}
	svc := NewChatService(testConfig(), streamer)

	var streamed []string
	result, err := svc.StreamInitiativeChat(context.Background(), nil, chatRequest(), func(chunk string) {
		streamed = append(streamed, chunk)
	})
	require.NoError(t, err)

	assert.Len(t, streamed, 2)
	assert.Equal(t, "Keep going! Ran again today. You got this.", result.FullResponse)
	require.True(t, result.HasCheckIn)
	assert.Equal(t, []string{"Ran again today."}, result.CheckIns)
}

func TestInitiativeChatSystemPromptCarriesContext(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"ok"}}
	svc := NewChatService(testConfig(), streamer)

	req := chatRequest()
	req.History = []request_models.ChatMessage{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	_, err := svc.StreamInitiativeChat(context.Background(), nil, req, func(string) {})
	require.NoError(t, err)

	messages := streamer.lastRequest.Messages
	require.Len(t, messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, `"Run three times a week"`)
	assert.Contains(t, messages[0].Content, `"Personal Well-being"`)
	assert.Contains(t, messages[0].Content, "- 2026-08-20: Ran 5k")
	assert.Equal(t, "earlier question", messages[1].Content)
	assert.Equal(t, "How do I keep this up?", messages[3].Content)
	assert.Equal(t, "gpt-4o", streamer.lastRequest.Model)
}

func TestInitiativeChatNoCheckInTags(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"Just a plain answer."}}
	svc := NewChatService(testConfig(), streamer)

	result, err := svc.StreamInitiativeChat(context.Background(), nil, chatRequest(), func(string) {})
	require.NoError(t, err)
	assert.False(t, result.HasCheckIn)
	assert.Empty(t, result.CheckIns)
	assert.Equal(t, "Just a plain answer.", result.FullResponse)
}

func TestInitiativeChatStreamerError(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"partial"}, err: errors.New("connection reset")}
	svc := NewChatService(testConfig(), streamer)

	_, err := svc.StreamInitiativeChat(context.Background(), nil, chatRequest(), func(string) {})
	assert.ErrorIs(t, err, utils.ErrUpstreamFailure)
}

func TestOnboardingChatExtractsTagsAcrossChunks(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{
		"Here are some ideas. <goal:g-reading>Read more",
		" books</goal> and <initiative:i-pages on g-reading>Read 10 pages a day</initiative> Enjoy!",
	}}
	svc := NewChatService(testConfig(), streamer)

	var chunks []OnboardingChunk
	result, err := svc.StreamOnboardingChat(context.Background(), nil, request_models.OnboardingChatRequest{
		History: []request_models.ChatMessage{{Role: "user", Content: "Help me get started"}},
	}, func(chunk OnboardingChunk) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Mid-stream the goal tag is still open, so nothing is extracted yet.
	assert.Empty(t, chunks[0].Extractables)

	final := chunks[1]
	require.Len(t, final.Extractables, 2)
	assert.Equal(t, "goal", final.Extractables[0].Type)
	assert.Equal(t, "g-reading", final.Extractables[0].ID)
	assert.Equal(t, "Read more books", final.Extractables[0].Text)
	assert.Equal(t, "initiative", final.Extractables[1].Type)
	assert.Equal(t, "i-pages", final.Extractables[1].ID)
	assert.Equal(t, "g-reading", final.Extractables[1].GoalID)
	assert.Equal(t, "Read 10 pages a day", final.Extractables[1].Text)
	assert.Equal(t, "Here are some ideas.  and  Enjoy!", final.Text)

	assert.Len(t, result.Extractables, 2)
}

func TestOnboardingChatUsesServerKeyByDefault(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"hi"}}
	svc := NewChatService(testConfig(), streamer)

	_, err := svc.StreamOnboardingChat(context.Background(), nil, request_models.OnboardingChatRequest{
		History: []request_models.ChatMessage{{Role: "user", Content: "hello"}},
	}, func(OnboardingChunk) {})
	require.NoError(t, err)
	assert.Equal(t, "sk-test", streamer.apiKey)
	assert.Contains(t, streamer.lastRequest.Messages[0].Content, "onboarding assistant")
}

func TestInitiativeChatCheckInsNewestFirst(t *testing.T) {
	streamer := &fakeStreamer{chunks: []string{"ok"}}
	svc := NewChatService(testConfig(), streamer)

	req := chatRequest()
	req.Context.CheckIns = []request_models.ContextCheckIn{
		{Content: "older note", Timestamp: "2026-08-01T10:00:00Z"},
		{Content: "newer note", Timestamp: "2026-08-20T10:00:00Z"},
	}

	_, err := svc.StreamInitiativeChat(context.Background(), nil, req, func(string) {})
	require.NoError(t, err)

	prompt := streamer.lastRequest.Messages[0].Content
	assert.Less(t, strings.Index(prompt, "newer note"), strings.Index(prompt, "older note"))
}
