package db_models

const (
	SubscriptionMonthly = "monthly"
	SubscriptionYearly  = "yearly"

	EntityTypeGoal       = "goal"
	EntityTypeInitiative = "initiative"
)

type Emotion struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	IsPositive bool   `json:"isPositive"`
}

// Timestamps on embedded records are ISO 8601 strings, the format the
// desktop client reads and writes.
type Goal struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	IsFixed     bool   `json:"isFixed"`
	CreatedAt   string `json:"createdAt"`
}

type Initiative struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	GoalID    string `json:"goalId"`
	CreatedAt string `json:"createdAt"`
}

type CheckIn struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
}

type EmotionRecord struct {
	EmotionID string `json:"emotionId"`
	Intensity int    `json:"intensity,omitempty"`
}

type JournalEntry struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Content        string          `json:"content"`
	EmotionRecords []EmotionRecord `json:"emotionRecords"`
	Actions        []string        `json:"actions"`
}

type Settings struct {
	CustomEmotions bool   `json:"customEmotions"`
	Theme          string `json:"theme"`
	AIEnabled      bool   `json:"aiEnabled"`
}

// UserData is the single per-user document holding everything the client
// syncs. Collections live as jsonb columns and are replaced wholesale on
// save, matching the client's read-modify-write cycle.
type UserData struct {
	BaseModel
	UserID string `gorm:"uniqueIndex" json:"userId"`

	Emotions       []Emotion      `gorm:"type:jsonb;serializer:json" json:"emotions"`
	Actions        []string       `gorm:"type:jsonb;serializer:json" json:"actions"`
	JournalEntries []JournalEntry `gorm:"type:jsonb;serializer:json" json:"journalEntries"`
	Goals          []Goal         `gorm:"type:jsonb;serializer:json" json:"goals"`
	Initiatives    []Initiative   `gorm:"type:jsonb;serializer:json" json:"initiatives"`
	CheckIns       []CheckIn      `gorm:"type:jsonb;serializer:json" json:"checkIns"`
	Settings       Settings       `gorm:"type:jsonb;serializer:json" json:"settings"`

	IsSubscribed         bool    `json:"isSubscribed"`
	SubscriptionType     *string `json:"subscriptionType"`
	SubscriptionEnd      *int64  `json:"subscriptionEnd"`
	StripeCustomerID     *string `gorm:"index" json:"-"`
	StripeSubscriptionID *string `json:"-"`
	ActiveProductID      *string `json:"activeProductId"`
}
