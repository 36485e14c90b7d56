package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/request_models"
	"redbutton/internal/repositories"
	"redbutton/pkg/utils"
)

type UserDataServiceInterface interface {
	GetOrCreate(ctx context.Context, userID string) (*db_models.UserData, error)
	EnsureDefaults(ctx context.Context, userID string) error
	UpdateSettings(ctx context.Context, userID string, request request_models.UpdateSettingsRequest) (db_models.Settings, error)
	AddEmotion(ctx context.Context, userID string, request request_models.AddEmotionRequest) (db_models.Emotion, []db_models.Emotion, error)
	RemoveEmotion(ctx context.Context, userID string, emotionID string) ([]db_models.Emotion, error)
	UpsertJournalEntry(ctx context.Context, userID string, request request_models.JournalEntryRequest) (db_models.JournalEntry, bool, error)
	AddGoal(ctx context.Context, userID string, request request_models.AddGoalRequest) (db_models.Goal, []db_models.Goal, error)
	AddInitiative(ctx context.Context, userID string, request request_models.AddInitiativeRequest) (db_models.Initiative, []db_models.Initiative, error)
	AddCheckIn(ctx context.Context, userID string, request request_models.AddCheckInRequest) (db_models.CheckIn, error)
}

type UserDataService struct {
	userDataRepo repositories.UserDataRepository
}

func NewUserDataService(userDataRepo repositories.UserDataRepository) UserDataServiceInterface {
	return &UserDataService{
		userDataRepo: userDataRepo,
	}
}

// GetOrCreate returns the user's document, seeding defaults when none exists.
func (s *UserDataService) GetOrCreate(ctx context.Context, userID string) (*db_models.UserData, error) {
	data, err := s.userDataRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if data != nil {
		return data, nil
	}

	data = NewUserData(userID)
	if err := s.userDataRepo.Insert(ctx, data); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return data, nil
}

// EnsureDefaults seeds the document for a new account. Idempotent: an
// existing document is left untouched.
func (s *UserDataService) EnsureDefaults(ctx context.Context, userID string) error {
	_, err := s.GetOrCreate(ctx, userID)
	return err
}

func (s *UserDataService) UpdateSettings(ctx context.Context, userID string, request request_models.UpdateSettingsRequest) (db_models.Settings, error) {
	data, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return db_models.Settings{}, err
	}

	if request.CustomEmotions != nil {
		data.Settings.CustomEmotions = *request.CustomEmotions
	}
	if request.Theme != nil {
		data.Settings.Theme = *request.Theme
	}
	if request.AIEnabled != nil {
		data.Settings.AIEnabled = *request.AIEnabled
	}

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return db_models.Settings{}, utils.ErrDatabaseError
	}
	return data.Settings, nil
}

func (s *UserDataService) AddEmotion(ctx context.Context, userID string, request request_models.AddEmotionRequest) (db_models.Emotion, []db_models.Emotion, error) {
	data, err := s.findExisting(ctx, userID)
	if err != nil {
		return db_models.Emotion{}, nil, err
	}

	emotion := db_models.Emotion{
		ID:         uuid.NewString(),
		Name:       request.Name,
		Emoji:      request.Emoji,
		IsPositive: request.IsPositive,
	}
	data.Emotions = append(data.Emotions, emotion)

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return db_models.Emotion{}, nil, utils.ErrDatabaseError
	}
	return emotion, data.Emotions, nil
}

func (s *UserDataService) RemoveEmotion(ctx context.Context, userID string, emotionID string) ([]db_models.Emotion, error) {
	data, err := s.findExisting(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := data.Emotions[:0]
	for _, e := range data.Emotions {
		if e.ID != emotionID {
			kept = append(kept, e)
		}
	}
	data.Emotions = kept

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return data.Emotions, nil
}

// UpsertJournalEntry creates or replaces the entry for the given date. One
// entry per date; the latest write wins.
func (s *UserDataService) UpsertJournalEntry(ctx context.Context, userID string, request request_models.JournalEntryRequest) (db_models.JournalEntry, bool, error) {
	data, err := s.findExisting(ctx, userID)
	if err != nil {
		return db_models.JournalEntry{}, false, err
	}

	emotionRecords := request.EmotionRecords
	if emotionRecords == nil {
		emotionRecords = []db_models.EmotionRecord{}
	}
	actions := request.Actions
	if actions == nil {
		actions = []string{}
	}

	for i := range data.JournalEntries {
		if data.JournalEntries[i].Date == request.Date {
			data.JournalEntries[i].Content = request.Content
			data.JournalEntries[i].EmotionRecords = emotionRecords
			data.JournalEntries[i].Actions = actions

			if err := s.userDataRepo.Save(ctx, data); err != nil {
				return db_models.JournalEntry{}, false, utils.ErrDatabaseError
			}
			return data.JournalEntries[i], false, nil
		}
	}

	entry := db_models.JournalEntry{
		ID:             uuid.NewString(),
		Date:           request.Date,
		Content:        request.Content,
		EmotionRecords: emotionRecords,
		Actions:        actions,
	}
	data.JournalEntries = append(data.JournalEntries, entry)

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return db_models.JournalEntry{}, false, utils.ErrDatabaseError
	}
	return entry, true, nil
}

func (s *UserDataService) AddGoal(ctx context.Context, userID string, request request_models.AddGoalRequest) (db_models.Goal, []db_models.Goal, error) {
	data, err := s.findExisting(ctx, userID)
	if err != nil {
		return db_models.Goal{}, nil, err
	}

	goal := db_models.Goal{
		ID:          uuid.NewString(),
		Text:        request.Text,
		Description: request.Description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	data.Goals = append(data.Goals, goal)

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return db_models.Goal{}, nil, utils.ErrDatabaseError
	}
	return goal, data.Goals, nil
}

func (s *UserDataService) AddInitiative(ctx context.Context, userID string, request request_models.AddInitiativeRequest) (db_models.Initiative, []db_models.Initiative, error) {
	data, err := s.findExisting(ctx, userID)
	if err != nil {
		return db_models.Initiative{}, nil, err
	}

	if !goalExists(data.Goals, request.GoalID) {
		return db_models.Initiative{}, nil, utils.ErrGoalNotFound
	}

	initiative := db_models.Initiative{
		ID:        uuid.NewString(),
		Text:      request.Text,
		GoalID:    request.GoalID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data.Initiatives = append(data.Initiatives, initiative)

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return db_models.Initiative{}, nil, utils.ErrDatabaseError
	}

	var siblings []db_models.Initiative
	for _, i := range data.Initiatives {
		if i.GoalID == request.GoalID {
			siblings = append(siblings, i)
		}
	}
	return initiative, siblings, nil
}

func (s *UserDataService) AddCheckIn(ctx context.Context, userID string, request request_models.AddCheckInRequest) (db_models.CheckIn, error) {
	data, err := s.findExisting(ctx, userID)
	if err != nil {
		return db_models.CheckIn{}, err
	}

	// The target goal or initiative must exist before the note is recorded.
	switch request.EntityType {
	case db_models.EntityTypeGoal:
		if !goalExists(data.Goals, request.EntityID) {
			return db_models.CheckIn{}, utils.ErrEntityNotFound
		}
	case db_models.EntityTypeInitiative:
		found := false
		for _, i := range data.Initiatives {
			if i.ID == request.EntityID {
				found = true
				break
			}
		}
		if !found {
			return db_models.CheckIn{}, utils.ErrEntityNotFound
		}
	default:
		return db_models.CheckIn{}, utils.ErrMissingFields
	}

	checkIn := db_models.CheckIn{
		ID:         uuid.NewString(),
		Content:    request.Content,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		EntityID:   request.EntityID,
		EntityType: request.EntityType,
	}
	data.CheckIns = append(data.CheckIns, checkIn)

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return db_models.CheckIn{}, utils.ErrDatabaseError
	}
	return checkIn, nil
}

func (s *UserDataService) findExisting(ctx context.Context, userID string) (*db_models.UserData, error) {
	data, err := s.userDataRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if data == nil {
		return nil, utils.ErrUserDataNotFound
	}
	return data, nil
}

func goalExists(goals []db_models.Goal, goalID string) bool {
	for _, g := range goals {
		if g.ID == goalID {
			return true
		}
	}
	return false
}
