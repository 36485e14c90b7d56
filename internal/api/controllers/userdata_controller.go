package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redbutton/internal/models/request_models"
	"redbutton/internal/services"
	"redbutton/pkg/middleware"
	"redbutton/pkg/utils"
)

type UserDataController struct {
	userDataService services.UserDataServiceInterface
}

func NewUserDataController(userDataService services.UserDataServiceInterface) *UserDataController {
	return &UserDataController{
		userDataService: userDataService,
	}
}

// GetUserData godoc
// @Summary Get the user's data document
// @Description Return emotions, goals, initiatives, journal entries, check-ins and settings. Seeds defaults on first access.
// @Tags UserData
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/userdata [get]
func (u *UserDataController) GetUserData(c *gin.Context) {
	data, err := u.userDataService.GetOrCreate(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"data": data})
}

// UpdateSettings godoc
// @Summary Patch user settings
// @Description Update only the provided settings fields
// @Tags UserData
// @Accept json
// @Produce json
// @Param request body request_models.UpdateSettingsRequest true "Settings patch"
// @Success 200 {object} map[string]interface{}
// @Router /api/userdata/settings [patch]
func (u *UserDataController) UpdateSettings(c *gin.Context) {
	var req request_models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	settings, err := u.userDataService.UpdateSettings(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"settings": settings})
}

// AddEmotion godoc
// @Summary Add a custom emotion
// @Tags UserData
// @Accept json
// @Produce json
// @Param request body request_models.AddEmotionRequest true "Emotion payload"
// @Success 201 {object} map[string]interface{}
// @Router /api/userdata/emotions [post]
func (u *UserDataController) AddEmotion(c *gin.Context) {
	var req request_models.AddEmotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	emotion, emotions, err := u.userDataService.AddEmotion(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"emotion":  emotion,
		"emotions": emotions,
	})
}

// RemoveEmotion godoc
// @Summary Remove an emotion
// @Tags UserData
// @Produce json
// @Param emotionId path string true "Emotion id"
// @Success 200 {object} map[string]interface{}
// @Router /api/userdata/emotions/{emotionId} [delete]
func (u *UserDataController) RemoveEmotion(c *gin.Context) {
	emotions, err := u.userDataService.RemoveEmotion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("emotionId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"emotions": emotions})
}

// SaveJournalEntry godoc
// @Summary Create or replace the journal entry for a date
// @Description One entry per date; posting the same date again replaces its content
// @Tags UserData
// @Accept json
// @Produce json
// @Param request body request_models.JournalEntryRequest true "Journal entry"
// @Success 201 {object} map[string]interface{}
// @Router /api/userdata/journal [post]
func (u *UserDataController) SaveJournalEntry(c *gin.Context) {
	var req request_models.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	entry, created, err := u.userDataService.UpsertJournalEntry(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	message := "Journal entry updated"
	if created {
		status = http.StatusCreated
		message = "Journal entry created"
	}
	utils.RespondSuccess(c, status, gin.H{
		"entry":   entry,
		"message": message,
	})
}

// AddGoal godoc
// @Summary Add a goal
// @Tags UserData
// @Accept json
// @Produce json
// @Param request body request_models.AddGoalRequest true "Goal payload"
// @Success 201 {object} map[string]interface{}
// @Router /api/userdata/goals [post]
func (u *UserDataController) AddGoal(c *gin.Context) {
	var req request_models.AddGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	goal, goals, err := u.userDataService.AddGoal(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"goal":  goal,
		"goals": goals,
	})
}

// AddInitiative godoc
// @Summary Add an initiative under a goal
// @Tags UserData
// @Accept json
// @Produce json
// @Param request body request_models.AddInitiativeRequest true "Initiative payload"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/userdata/initiatives [post]
func (u *UserDataController) AddInitiative(c *gin.Context) {
	var req request_models.AddInitiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	initiative, initiatives, err := u.userDataService.AddInitiative(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"initiative":  initiative,
		"initiatives": initiatives,
	})
}

// AddCheckIn godoc
// @Summary Record a check-in on a goal or initiative
// @Tags UserData
// @Accept json
// @Produce json
// @Param request body request_models.AddCheckInRequest true "Check-in payload"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/userdata/checkins [post]
func (u *UserDataController) AddCheckIn(c *gin.Context) {
	var req request_models.AddCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	checkIn, err := u.userDataService.AddCheckIn(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{"checkIn": checkIn})
}
