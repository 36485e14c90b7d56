package services

import (
	"time"

	"github.com/google/uuid"

	"redbutton/internal/models/db_models"
)

// DefaultEmotions returns the ten emotions every new account starts with.
// IDs are generated per user so emotion references stay unique per document.
func DefaultEmotions() []db_models.Emotion {
	return []db_models.Emotion{
		{ID: uuid.NewString(), Name: "Happy", Emoji: "😊", IsPositive: true},
		{ID: uuid.NewString(), Name: "Excited", Emoji: "🎉", IsPositive: true},
		{ID: uuid.NewString(), Name: "Grateful", Emoji: "🙏", IsPositive: true},
		{ID: uuid.NewString(), Name: "Proud", Emoji: "🏆", IsPositive: true},
		{ID: uuid.NewString(), Name: "Calm", Emoji: "😌", IsPositive: true},
		{ID: uuid.NewString(), Name: "Sad", Emoji: "😔", IsPositive: false},
		{ID: uuid.NewString(), Name: "Anxious", Emoji: "😰", IsPositive: false},
		{ID: uuid.NewString(), Name: "Frustrated", Emoji: "😤", IsPositive: false},
		{ID: uuid.NewString(), Name: "Overwhelmed", Emoji: "😩", IsPositive: false},
		{ID: uuid.NewString(), Name: "Angry", Emoji: "😠", IsPositive: false},
	}
}

// DefaultGoals returns the three fixed goals seeded for every new account.
func DefaultGoals() []db_models.Goal {
	now := time.Now().UTC().Format(time.RFC3339)
	return []db_models.Goal{
		{
			ID:          uuid.NewString(),
			Text:        "Personal Well-being",
			Description: "Maintain and improve my physical and mental health",
			IsFixed:     true,
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Text:        "Professional Growth",
			Description: "Develop skills and advance in my career",
			IsFixed:     true,
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Text:        "Relationships",
			Description: "Nurture important relationships in my life",
			IsFixed:     true,
			CreatedAt:   now,
		},
	}
}

func DefaultSettings() db_models.Settings {
	return db_models.Settings{
		CustomEmotions: false,
		Theme:          "dark",
		AIEnabled:      true,
	}
}

// NewUserData builds a fully seeded document for userID.
func NewUserData(userID string) *db_models.UserData {
	return &db_models.UserData{
		UserID:         userID,
		Emotions:       DefaultEmotions(),
		Actions:        []string{},
		JournalEntries: []db_models.JournalEntry{},
		Goals:          DefaultGoals(),
		Initiatives:    []db_models.Initiative{},
		CheckIns:       []db_models.CheckIn{},
		Settings:       DefaultSettings(),
	}
}
