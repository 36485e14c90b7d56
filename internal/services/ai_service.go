package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/request_models"
	"redbutton/internal/models/response_models"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

// CompletionClient is the slice of the OpenAI client the service needs.
// Narrowed to an interface so tests can stand in a fake.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateFile(ctx context.Context, request openai.FileRequest) (openai.File, error)
}

// ClientFactory builds a completion client for an API key. Users may carry
// their own key which overrides the server's.
type ClientFactory func(apiKey string) CompletionClient

func DefaultClientFactory(apiKey string) CompletionClient {
	return utils.NewCompletionClient(apiKey)
}

// UploadedFile describes a file accepted by the AI provider.
type UploadedFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type AIServiceInterface interface {
	GetSuggestions(ctx context.Context, user *db_models.User, data *db_models.UserData, request request_models.SuggestionsRequest) ([]response_models.Suggestion, error)
	GenerateJournalTemplate(ctx context.Context, user *db_models.User, data *db_models.UserData, request request_models.JournalTemplateRequest) (string, error)
	PolishEntry(ctx context.Context, user *db_models.User, request request_models.PolishEntryRequest) (string, error)
	UploadFile(ctx context.Context, user *db_models.User, filePath string, fileName string) (*UploadedFile, error)
}

type AIService struct {
	cfg     *config.Config
	factory ClientFactory
}

func NewAIService(cfg *config.Config, factory ClientFactory) AIServiceInterface {
	return &AIService{
		cfg:     cfg,
		factory: factory,
	}
}

// apiKeyFor picks the user's own key when present, the server key otherwise.
func apiKeyFor(cfg *config.Config, user *db_models.User) (string, error) {
	if user != nil && user.APIKey != nil && *user.APIKey != "" {
		return *user.APIKey, nil
	}
	if cfg.OpenAIAPIKey == "" {
		return "", utils.ErrUpstreamFailure
	}
	return cfg.OpenAIAPIKey, nil
}

func (s *AIService) clientFor(user *db_models.User) (CompletionClient, error) {
	key, err := apiKeyFor(s.cfg, user)
	if err != nil {
		return nil, err
	}
	return s.factory(key), nil
}

func (s *AIService) GetSuggestions(ctx context.Context, user *db_models.User, data *db_models.UserData, request request_models.SuggestionsRequest) ([]response_models.Suggestion, error) {
	client, err := s.clientFor(user)
	if err != nil {
		return nil, err
	}

	minutes := request.AvailableMinutes
	if minutes <= 0 {
		minutes = 10
	}

	isPositive := request.IsPositive != nil && *request.IsPositive
	prompt := buildSuggestionsPrompt(request.EmotionName, isPositive, minutes, request.Action, formatGoalsContext(data.Goals, data.Initiatives, data.CheckIns))

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.DefaultModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an empathetic assistant helping users respond effectively to their emotional states.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: s.cfg.AILimits.TemperatureSuggestions,
		MaxTokens:   s.cfg.AILimits.MaxTokensSuggestions,
	})
	if err != nil {
		log.Printf("Error generating suggestions: %v", err)
		return nil, utils.ErrUpstreamFailure
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	return parseSuggestions(content, data.Goals, data.Initiatives), nil
}

func buildSuggestionsPrompt(emotionName string, isPositive bool, minutes int, action string, goalsText string) string {
	var b strings.Builder

	if isPositive {
		fmt.Fprintf(&b, "I'm feeling %s right now and I have %d minutes available.", emotionName, minutes)
		switch action {
		case "celebrate":
			b.WriteString(" I want to have at least one proposal that will allow me to celebrate this feeling.")
		case "plan":
			b.WriteString(" I want you to help me to identify a next step.")
		}
	} else {
		fmt.Fprintf(&b, "I'm feeling %s right now and I have %d minutes available. I need some suggestions to help me feel better or be more productive.", emotionName, minutes)
	}

	fmt.Fprintf(&b, "\n\nHere are my current goals and initiatives:\n%s\n", goalsText)
	fmt.Fprintf(&b, "Given my current state and goals, what are 3 specific actions I could take in the next %d minutes?\n\n", minutes)
	b.WriteString(`I want your actions to be
- very specific and brief. (for example: "let's go running for 30 minutes" is a good initiative, but "Set a Micro-Goal (Professional Growth): Take 3 minutes to jot down one small, actionable step you can take toward your professional growth" - not so good. it is too abstract)
- exactly fit to the available time
- look at the goals, initiatives and check-ins (CONSIDERING IT's DATES - that's what user choose!) AND
  - try to balance between the goals - to not prioritize one goal over the others
  - propose actions that are about different goals
  - combine some very straightforward actions (for example: "let's go running for 30 minutes") with more abstract & complex ones

OUTPUT FORMAT NOTES:
- each action should be in a new line. No multiline actions. (but line could be a bit longer than 100 characters)
- if action relevant to specific goal or to specific initiative, follow the format: <id>: <action_text>
`)
	return b.String()
}

// formatGoalsContext renders goals with their initiatives and progress notes
// into the layout the prompts expect.
func formatGoalsContext(goals []db_models.Goal, initiatives []db_models.Initiative, checkIns []db_models.CheckIn) string {
	var b strings.Builder

	for _, goal := range goals {
		fmt.Fprintf(&b, "GOAL: ID: %s - %s\n", goal.ID, goal.Text)
		if goal.Description != "" {
			fmt.Fprintf(&b, "DESCRIPTION: %s\n", goal.Description)
		}

		goalNotes := notesFor(checkIns, goal.ID, db_models.EntityTypeGoal)
		if len(goalNotes) > 0 {
			b.WriteString("PROGRESS NOTES:\n")
			for _, c := range goalNotes {
				fmt.Fprintf(&b, "- %s: %s\n", formatNoteDate(c.Timestamp), c.Content)
			}
		}

		var goalInitiatives []db_models.Initiative
		for _, i := range initiatives {
			if i.GoalID == goal.ID {
				goalInitiatives = append(goalInitiatives, i)
			}
		}
		if len(goalInitiatives) > 0 {
			b.WriteString("INITIATIVES:\n")
			for _, initiative := range goalInitiatives {
				status := "IN PROGRESS"
				if initiative.Completed {
					status = "COMPLETED"
				}
				fmt.Fprintf(&b, "- ID: %s - %s (%s)\n", initiative.ID, initiative.Text, status)
				for _, c := range notesFor(checkIns, initiative.ID, db_models.EntityTypeInitiative) {
					fmt.Fprintf(&b, "  * %s: %s\n", formatNoteDate(c.Timestamp), c.Content)
				}
			}
		}

		b.WriteString("\n")
	}
	return b.String()
}

// notesFor collects the check-ins attached to one entity, newest first.
func notesFor(checkIns []db_models.CheckIn, entityID, entityType string) []db_models.CheckIn {
	var notes []db_models.CheckIn
	for _, c := range checkIns {
		if c.EntityID == entityID && c.EntityType == entityType {
			notes = append(notes, c)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return noteTime(notes[i].Timestamp).After(noteTime(notes[j].Timestamp))
	})
	return notes
}

func noteTime(timestamp string) time.Time {
	t, _ := time.Parse(time.RFC3339, timestamp)
	return t
}

func formatNoteDate(timestamp string) string {
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		return t.Format("2006-01-02")
	}
	return timestamp
}

// parseSuggestions turns the model's line-per-action output into suggestions,
// linking lines of the form "<id>: <text>" back to goals and initiatives.
func parseSuggestions(text string, goals []db_models.Goal, initiatives []db_models.Initiative) []response_models.Suggestion {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return []response_models.Suggestion{
			{Text: "Take a few minutes to reflect on your current emotions."},
		}
	}

	suggestions := make([]response_models.Suggestion, 0, len(lines))
	for _, line := range lines {
		cleaned := strings.TrimSpace(stripListPrefix(line))

		// "<id>: <text>" form, only when the line has a single colon.
		if strings.Count(cleaned, ":") == 1 {
			parts := strings.SplitN(cleaned, ":", 2)
			id := strings.TrimSpace(parts[0])
			body := strings.TrimSpace(parts[1])

			if s, ok := matchByID(id, body, goals, initiatives); ok {
				suggestions = append(suggestions, s)
				continue
			}
			suggestions = append(suggestions, response_models.Suggestion{Text: body})
			continue
		}

		suggestions = append(suggestions, matchByMention(cleaned, goals, initiatives))
	}
	return suggestions
}

func stripListPrefix(line string) string {
	trimmed := strings.TrimLeft(line, "*- ")
	if trimmed != line {
		return trimmed
	}
	// Numbered prefix like "1. "
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' && i > 0 {
			return strings.TrimLeft(line[i+1:], " ")
		}
		break
	}
	return line
}

func matchByID(id string, body string, goals []db_models.Goal, initiatives []db_models.Initiative) (response_models.Suggestion, bool) {
	for _, initiative := range initiatives {
		if initiative.ID == id {
			return response_models.Suggestion{
				Text: body,
				RelatedItem: &response_models.RelatedItem{
					ID:   initiative.ID,
					Type: db_models.EntityTypeInitiative,
					Name: fmt.Sprintf("%s (%s)", initiative.Text, goalName(goals, initiative.GoalID)),
				},
			}, true
		}
	}
	for _, goal := range goals {
		if goal.ID == id {
			return response_models.Suggestion{
				Text: body,
				RelatedItem: &response_models.RelatedItem{
					ID:   goal.ID,
					Type: db_models.EntityTypeGoal,
					Name: goal.Text,
				},
			}, true
		}
	}
	return response_models.Suggestion{}, false
}

func matchByMention(line string, goals []db_models.Goal, initiatives []db_models.Initiative) response_models.Suggestion {
	lower := strings.ToLower(line)

	for _, initiative := range initiatives {
		if initiative.Text != "" && strings.Contains(lower, strings.ToLower(initiative.Text)) {
			return response_models.Suggestion{
				Text: line,
				RelatedItem: &response_models.RelatedItem{
					ID:   initiative.ID,
					Type: db_models.EntityTypeInitiative,
					Name: fmt.Sprintf("%s (%s)", initiative.Text, goalName(goals, initiative.GoalID)),
				},
			}
		}
	}
	for _, goal := range goals {
		if goal.Text != "" && strings.Contains(lower, strings.ToLower(goal.Text)) {
			return response_models.Suggestion{
				Text: line,
				RelatedItem: &response_models.RelatedItem{
					ID:   goal.ID,
					Type: db_models.EntityTypeGoal,
					Name: goal.Text,
				},
			}
		}
	}
	return response_models.Suggestion{Text: line}
}

func goalName(goals []db_models.Goal, goalID string) string {
	for _, g := range goals {
		if g.ID == goalID {
			return g.Text
		}
	}
	return "Unknown goal"
}

func (s *AIService) GenerateJournalTemplate(ctx context.Context, user *db_models.User, data *db_models.UserData, request request_models.JournalTemplateRequest) (string, error) {
	client, err := s.clientFor(user)
	if err != nil {
		return DefaultJournalTemplate(), nil
	}

	emotionParts := make([]string, 0, len(request.Emotions))
	for _, e := range request.Emotions {
		polarity := "negative"
		if e.IsPositive {
			polarity = "positive"
		}
		emotionParts = append(emotionParts, fmt.Sprintf("%s (%s)", e.Name, polarity))
	}

	// Only the two most recent entries go into the prompt.
	previous := request.PreviousEntries
	if len(previous) > 2 {
		previous = previous[:2]
	}

	var b strings.Builder
	b.WriteString("=== TASK ===\n")
	b.WriteString("Create a thoughtful journal template for today that helps me reflect on these emotions.\n")
	b.WriteString("Include 3-5 specific questions or prompts to guide my reflection.\n")
	b.WriteString("Keep it plaintext only. Only questions to answer (or reference to some TODAY's updates like check-ins)\n")
	fmt.Fprintf(&b, "Today is %s.\n\n", time.Now().Format("2006-01-02"))
	b.WriteString("=== CONTEXT ===\n")
	fmt.Fprintf(&b, "I experienced these emotions today: %s.\n", strings.Join(emotionParts, ", "))
	if len(previous) > 0 {
		fmt.Fprintf(&b, "\nHere are my most recent journal entries:\n%s\n", strings.Join(previous, "\n\n"))
	}
	if goalsText := formatGoalsContext(data.Goals, data.Initiatives, data.CheckIns); goalsText != "" {
		fmt.Fprintf(&b, "\nHere are my current goals and initiatives:\n%s\n", goalsText)
	}
	b.WriteString("\n=== OUTPUT FORMAT ===\n")
	b.WriteString("Plaintext only. Numbered list of questions.\n")
	b.WriteString("I allow to add 1 inspirational quote at the end related to today's emotions and updates.\n")

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.DefaultModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a supportive journaling assistant. Create templates that are personal, reflective, and help users process their emotions.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: b.String(),
			},
		},
		Temperature: s.cfg.AILimits.TemperatureJournal,
		MaxTokens:   s.cfg.AILimits.MaxTokensJournal,
	})
	if err != nil {
		log.Printf("Error generating journal template: %v", err)
		return DefaultJournalTemplate(), nil
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return DefaultJournalTemplate(), nil
	}
	return resp.Choices[0].Message.Content, nil
}

// DefaultJournalTemplate is the fallback when the AI provider is unavailable.
func DefaultJournalTemplate() string {
	return `# Journal Entry

## How I'm feeling today
[Write about your emotions and overall mood]

## What happened today
[Describe any significant events or interactions]

## Reflections
[What did I learn today? What insights did I gain?]

## Tomorrow
[What am I looking forward to? What do I want to accomplish?]`
}

// PolishEntry rewrites an entry for clarity. The caller always gets usable
// content back; failures fall through to the original text.
func (s *AIService) PolishEntry(ctx context.Context, user *db_models.User, request request_models.PolishEntryRequest) (string, error) {
	client, err := s.clientFor(user)
	if err != nil {
		return request.EntryContent, nil
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.DefaultModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: `You are a skilled writing assistant helping to polish journal entries.
Maintain the writer's voice, key points, and personal insights.
Improve clarity, flow, and readability.
Fix any grammar or spelling issues.
DO NOT add new content or change the meaning of what was written.`,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Please polish this journal entry without changing its meaning or adding new content:\n\n%s", request.EntryContent),
			},
		},
		Temperature: s.cfg.AILimits.TemperaturePolish,
		MaxTokens:   s.cfg.AILimits.MaxTokensPolish,
	})
	if err != nil {
		log.Printf("Error polishing journal entry: %v", err)
		return request.EntryContent, nil
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return request.EntryContent, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) UploadFile(ctx context.Context, user *db_models.User, filePath string, fileName string) (*UploadedFile, error) {
	client, err := s.clientFor(user)
	if err != nil {
		return nil, err
	}

	file, err := client.CreateFile(ctx, openai.FileRequest{
		FileName: fileName,
		FilePath: filePath,
		Purpose:  "assistants",
	})
	if err != nil {
		log.Printf("Error uploading file to AI provider: %v", err)
		return nil, utils.ErrUpstreamFailure
	}

	return &UploadedFile{
		ID:       file.ID,
		Filename: file.FileName,
	}, nil
}
