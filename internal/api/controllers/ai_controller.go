package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"redbutton/internal/models/request_models"
	"redbutton/internal/services"
	"redbutton/pkg/config"
	"redbutton/pkg/middleware"
	"redbutton/pkg/utils"
)

type AIController struct {
	cfg             *config.Config
	aiService       services.AIServiceInterface
	chatService     services.ChatServiceInterface
	userDataService services.UserDataServiceInterface
}

func NewAIController(
	cfg *config.Config,
	aiService services.AIServiceInterface,
	chatService services.ChatServiceInterface,
	userDataService services.UserDataServiceInterface,
) *AIController {
	return &AIController{
		cfg:             cfg,
		aiService:       aiService,
		chatService:     chatService,
		userDataService: userDataService,
	}
}

// Suggestions godoc
// @Summary Get action suggestions for an emotion
// @Description Suggest concrete actions for the current emotional state, linked to the user's goals and initiatives where possible
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.SuggestionsRequest true "Suggestions payload"
// @Success 200 {object} map[string]interface{}
// @Router /api/ai/suggestions [post]
func (a *AIController) Suggestions(c *gin.Context) {
	var req request_models.SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := middleware.CurrentUser(c)
	data, err := a.userDataService.GetOrCreate(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	suggestions, err := a.aiService.GetSuggestions(c.Request.Context(), user, data, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"suggestions": suggestions})
}

// JournalTemplate godoc
// @Summary Generate a journal template for today
// @Description Build a personalized reflection template from today's emotions, recent entries and goals. Falls back to a static template when the AI provider is unavailable.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.JournalTemplateRequest true "Template payload"
// @Success 200 {object} map[string]interface{}
// @Router /api/ai/journal-template [post]
func (a *AIController) JournalTemplate(c *gin.Context) {
	var req request_models.JournalTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := middleware.CurrentUser(c)
	data, err := a.userDataService.GetOrCreate(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	template, err := a.aiService.GenerateJournalTemplate(c.Request.Context(), user, data, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"template": template})
}

// PolishEntry godoc
// @Summary Polish a journal entry
// @Description Improve clarity and flow without changing meaning. The original content comes back when polishing is unavailable.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.PolishEntryRequest true "Polish payload"
// @Success 200 {object} map[string]interface{}
// @Router /api/ai/polish-entry [post]
func (a *AIController) PolishEntry(c *gin.Context) {
	var req request_models.PolishEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	polished, err := a.aiService.PolishEntry(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"polishedContent": polished})
}

// InitiativeChat godoc
// @Summary Stream an initiative coaching chat turn
// @Description Server-sent events: one event per text chunk, then a final done event with the full response and extracted check-in suggestions
// @Tags AI
// @Accept json
// @Produce text/event-stream
// @Param request body request_models.InitiativeChatRequest true "Chat payload"
// @Success 200
// @Router /api/ai/initiative-chat [post]
func (a *AIController) InitiativeChat(c *gin.Context) {
	var req request_models.InitiativeChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	openEventStream(c)

	result, err := a.chatService.StreamInitiativeChat(c.Request.Context(), middleware.CurrentUser(c), req, func(chunk string) {
		writeEvent(c, gin.H{"text": chunk})
	})
	if err != nil {
		writeEvent(c, gin.H{"error": "Chat is unavailable right now, please try again"})
		return
	}

	writeEvent(c, gin.H{
		"done":         true,
		"fullResponse": result.FullResponse,
		"checkIns":     result.CheckIns,
		"hasCheckIn":   result.HasCheckIn,
	})
}

// OnboardingChat godoc
// @Summary Stream an onboarding chat turn
// @Description Server-sent events: each event carries the visible text so far and the goals and initiatives extracted from tag markup
// @Tags AI
// @Accept json
// @Produce text/event-stream
// @Param request body request_models.OnboardingChatRequest true "Chat payload"
// @Success 200
// @Router /api/ai/onboarding-chat [post]
func (a *AIController) OnboardingChat(c *gin.Context) {
	var req request_models.OnboardingChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	openEventStream(c)

	result, err := a.chatService.StreamOnboardingChat(c.Request.Context(), middleware.CurrentUser(c), req, func(chunk services.OnboardingChunk) {
		writeEvent(c, gin.H{
			"text":         chunk.Text,
			"extractables": chunk.Extractables,
		})
	})
	if err != nil {
		writeEvent(c, gin.H{"error": "Chat is unavailable right now, please try again"})
		return
	}

	writeEvent(c, gin.H{
		"done":         true,
		"fullResponse": result.FullResponse,
		"extractables": result.Extractables,
	})
}

// UploadFile godoc
// @Summary Upload a file to the AI provider
// @Description Accept a multipart file and forward it for assistant use. Capped at the configured upload size.
// @Tags AI
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/ai/upload-file [post]
func (a *AIController) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.cfg.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if fileHeader.Size > a.cfg.MaxUploadBytes {
		utils.RespondError(c, http.StatusBadRequest, "File is too large")
		return
	}

	tmp, err := os.CreateTemp("", "redbutton-upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	uploaded, err := a.aiService.UploadFile(c.Request.Context(), middleware.CurrentUser(c), tmpPath, fileHeader.Filename)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"fileId":   uploaded.ID,
		"filename": uploaded.Filename,
	})
}

func openEventStream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()
}

func writeEvent(c *gin.Context, payload gin.H) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", body)
	c.Writer.Flush()
}
