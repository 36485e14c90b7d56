package request_models

import "redbutton/internal/models/db_models"

// UpdateSettingsRequest carries a partial settings patch. Nil fields keep
// their stored value.
type UpdateSettingsRequest struct {
	CustomEmotions *bool   `json:"customEmotions"`
	Theme          *string `json:"theme"`
	AIEnabled      *bool   `json:"aiEnabled"`
}

type AddEmotionRequest struct {
	Name       string `json:"name" binding:"required"`
	Emoji      string `json:"emoji"`
	IsPositive bool   `json:"isPositive"`
}

type JournalEntryRequest struct {
	Date           string                    `json:"date" binding:"required"`
	Content        string                    `json:"content"`
	EmotionRecords []db_models.EmotionRecord `json:"emotionRecords"`
	Actions        []string                  `json:"actions"`
}

type AddGoalRequest struct {
	Text        string `json:"text" binding:"required"`
	Description string `json:"description"`
}

type AddInitiativeRequest struct {
	Text   string `json:"text" binding:"required"`
	GoalID string `json:"goalId" binding:"required"`
}

type AddCheckInRequest struct {
	Content    string `json:"content" binding:"required"`
	EntityID   string `json:"entityId" binding:"required"`
	EntityType string `json:"entityType" binding:"required,oneof=goal initiative"`
}

type UpdateAPIKeyRequest struct {
	APIKey string `json:"apiKey"`
}
