package request_models

type SuggestionsRequest struct {
	EmotionID        string `json:"emotionId" binding:"required"`
	EmotionName      string `json:"emotionName" binding:"required"`
	IsPositive       *bool  `json:"isPositive" binding:"required"`
	AvailableMinutes int    `json:"availableMinutes"`
	Action           string `json:"action"`
}

type JournalTemplateRequest struct {
	Emotions        []TemplateEmotion `json:"emotions" binding:"required"`
	PreviousEntries []string          `json:"previousEntries"`
}

type TemplateEmotion struct {
	Name       string `json:"name"`
	IsPositive bool   `json:"isPositive"`
}

type PolishEntryRequest struct {
	EntryContent string `json:"entryContent" binding:"required"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatContext carries the goal and initiative the coaching session is about,
// plus the check-ins recorded against that initiative.
type ChatContext struct {
	Goal       ContextGoal       `json:"goal"`
	Initiative ContextInitiative `json:"initiative"`
	CheckIns   []ContextCheckIn  `json:"checkIns"`
}

type ContextGoal struct {
	Text        string `json:"text"`
	Description string `json:"description"`
}

type ContextInitiative struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type ContextCheckIn struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type InitiativeChatRequest struct {
	Context ChatContext   `json:"context" binding:"required"`
	History []ChatMessage `json:"history"`
	Message string        `json:"message" binding:"required"`
}

type OnboardingChatRequest struct {
	History []ChatMessage `json:"history" binding:"required,min=1"`
}
