package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/request_models"
	"redbutton/internal/models/response_models"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

var (
	checkInRe       = regexp.MustCompile(`<check_in>(.*?)</check_in>`)
	goalTagRe       = regexp.MustCompile(`(?s)<goal:([^>]+)>(.*?)</goal>`)
	initiativeTagRe = regexp.MustCompile(`(?s)<initiative:([^ >]+) on ([^>]+)>(.*?)</initiative>`)
)

// ChatStreamer streams a chat completion, invoking onDelta for every content
// chunk and returning the accumulated response.
type ChatStreamer interface {
	StreamChat(ctx context.Context, apiKey string, request openai.ChatCompletionRequest, onDelta func(string)) (string, error)
}

type openAIStreamer struct{}

func NewOpenAIStreamer() ChatStreamer {
	return openAIStreamer{}
}

func (openAIStreamer) StreamChat(ctx context.Context, apiKey string, request openai.ChatCompletionRequest, onDelta func(string)) (string, error) {
	client := utils.NewCompletionClient(apiKey)

	stream, err := client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if content := resp.Choices[0].Delta.Content; content != "" {
			full.WriteString(content)
			onDelta(content)
		}
	}
	return full.String(), nil
}

// ChatResult is the final state of an initiative chat turn.
type ChatResult struct {
	FullResponse string
	CheckIns     []string
	HasCheckIn   bool
}

// OnboardingChunk is emitted on every streamed delta of an onboarding turn,
// carrying the visible text so far and the structured items extracted from it.
type OnboardingChunk struct {
	Text         string
	Extractables []response_models.ExtractableItem
}

// OnboardingResult is the final state of an onboarding chat turn.
type OnboardingResult struct {
	FullResponse string
	Extractables []response_models.ExtractableItem
}

type ChatServiceInterface interface {
	StreamInitiativeChat(ctx context.Context, user *db_models.User, request request_models.InitiativeChatRequest, onDelta func(string)) (*ChatResult, error)
	StreamOnboardingChat(ctx context.Context, user *db_models.User, request request_models.OnboardingChatRequest, onChunk func(OnboardingChunk)) (*OnboardingResult, error)
}

type ChatService struct {
	cfg      *config.Config
	streamer ChatStreamer
}

func NewChatService(cfg *config.Config, streamer ChatStreamer) ChatServiceInterface {
	return &ChatService{
		cfg:      cfg,
		streamer: streamer,
	}
}

func (s *ChatService) StreamInitiativeChat(ctx context.Context, user *db_models.User, request request_models.InitiativeChatRequest, onDelta func(string)) (*ChatResult, error) {
	apiKey, err := apiKeyFor(s.cfg, user)
	if err != nil {
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(request.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: initiativeChatSystemPrompt(request.Context),
	})
	for _, msg := range request.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: request.Message,
	})

	full, err := s.streamer.StreamChat(ctx, apiKey, openai.ChatCompletionRequest{
		Model:       s.cfg.ChatModel,
		Messages:    messages,
		Stream:      true,
		Temperature: s.cfg.AILimits.TemperatureChat,
		MaxTokens:   s.cfg.AILimits.MaxTokensChat,
	}, onDelta)
	if err != nil {
		log.Printf("Error in streaming chat response: %v", err)
		return nil, utils.ErrUpstreamFailure
	}

	checkIns := extractCheckIns(full)
	cleaned := strings.ReplaceAll(full, "<check_in>", "")
	cleaned = strings.ReplaceAll(cleaned, "</check_in>", "")

	return &ChatResult{
		FullResponse: cleaned,
		CheckIns:     checkIns,
		HasCheckIn:   len(checkIns) > 0,
	}, nil
}

func initiativeChatSystemPrompt(chatCtx request_models.ChatContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an AI assistant helping the user break down their initiative: %q which is part of their goal: %q.\n\n",
		chatCtx.Initiative.Text, chatCtx.Goal.Text)

	if chatCtx.Goal.Description != "" {
		fmt.Fprintf(&b, "The goal description is: %q\n\n", chatCtx.Goal.Description)
	}

	if len(chatCtx.CheckIns) > 0 {
		notes := make([]request_models.ContextCheckIn, len(chatCtx.CheckIns))
		copy(notes, chatCtx.CheckIns)
		sort.SliceStable(notes, func(i, j int) bool {
			return noteTime(notes[i].Timestamp).After(noteTime(notes[j].Timestamp))
		})

		b.WriteString("Here are the check-ins (progress notes) for this initiative so far:\n")
		for _, c := range notes {
			fmt.Fprintf(&b, "- %s: %s\n", formatNoteDate(c.Timestamp), c.Content)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("There are no check-ins for this initiative yet.\n\n")
	}

	b.WriteString(`Your role is to help the user:
1. Break down the initiative into smaller, actionable steps
2. Identify potential obstacles and solutions
3. Suggest concrete next actions
4. Provide guidance on how to approach the initiative

Stay sharp and concise. Stay very practical. If something is not clear to the user, ask for more details.

IMPORTANT: Every message should contain at least one potential improvement for user to take - a potential check-in (progress note) that the user might want to record, wrap it in <check_in> tags. For example: "<check_in>Completed initial research on design patterns.</check_in>"

Keep your responses concise, practical and focused on helping the user make progress towards completing their initiative.
Important - your default response length is under 30 words. Don't make it larger if not asked about deep advice.

Stay personal. Don't be too formal. Give your advice.`)

	return b.String()
}

func extractCheckIns(message string) []string {
	var checkIns []string
	for _, match := range checkInRe.FindAllStringSubmatch(message, -1) {
		checkIns = append(checkIns, match[1])
	}
	return checkIns
}

const onboardingSystemPrompt = `You are an AI onboarding assistant for the RedButton app.
When you suggest a goal, wrap it as <goal:unique_id>Goal text</goal>.
When you suggest an initiative, wrap it as <initiative:unique_id on goal_id>Initiative text</initiative>.
Do not use the same ID twice.
Do not include the text inside these tags in the visible message; it will be shown as a button instead.`

func (s *ChatService) StreamOnboardingChat(ctx context.Context, user *db_models.User, request request_models.OnboardingChatRequest, onChunk func(OnboardingChunk)) (*OnboardingResult, error) {
	apiKey, err := apiKeyFor(s.cfg, user)
	if err != nil {
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(request.History)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: onboardingSystemPrompt,
	})
	for _, msg := range request.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	// The tag markup can be split across deltas, so every chunk re-derives
	// the visible text and extractables from the whole buffer.
	var buffer strings.Builder
	full, err := s.streamer.StreamChat(ctx, apiKey, openai.ChatCompletionRequest{
		Model:       s.cfg.ChatModel,
		Messages:    messages,
		Stream:      true,
		Temperature: s.cfg.AILimits.TemperatureChat,
		MaxTokens:   s.cfg.AILimits.MaxTokensChat,
	}, func(delta string) {
		buffer.WriteString(delta)
		visible, extractables := extractOnboardingItems(buffer.String())
		onChunk(OnboardingChunk{Text: visible, Extractables: extractables})
	})
	if err != nil {
		log.Printf("Error in onboarding chat stream: %v", err)
		return nil, utils.ErrUpstreamFailure
	}

	_, extractables := extractOnboardingItems(full)
	return &OnboardingResult{
		FullResponse: full,
		Extractables: extractables,
	}, nil
}

// extractOnboardingItems pulls goal and initiative tags out of text,
// returning the text with tags removed plus the structured items.
func extractOnboardingItems(text string) (string, []response_models.ExtractableItem) {
	items := []response_models.ExtractableItem{}

	for _, match := range goalTagRe.FindAllStringSubmatch(text, -1) {
		items = append(items, response_models.ExtractableItem{
			Type: db_models.EntityTypeGoal,
			ID:   match[1],
			Text: match[2],
		})
	}
	visible := goalTagRe.ReplaceAllString(text, "")

	for _, match := range initiativeTagRe.FindAllStringSubmatch(text, -1) {
		items = append(items, response_models.ExtractableItem{
			Type:   db_models.EntityTypeInitiative,
			ID:     match[1],
			GoalID: match[2],
			Text:   match[3],
		})
	}
	visible = initiativeTagRe.ReplaceAllString(visible, "")

	return visible, items
}
