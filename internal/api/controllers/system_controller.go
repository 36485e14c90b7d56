package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

const appVersion = "1.0.0"

type SystemController struct {
	cfg *config.Config
}

func NewSystemController(cfg *config.Config) *SystemController {
	return &SystemController{cfg: cfg}
}

// Health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"version":     appVersion,
		"environment": s.cfg.Env,
	})
}

// Download godoc
// @Summary Download the desktop installer
// @Tags System
// @Produce application/octet-stream
// @Success 200
// @Failure 404 {object} map[string]interface{}
// @Router /download [get]
func (s *SystemController) Download(c *gin.Context) {
	if _, err := os.Stat(s.cfg.InstallerPath); err != nil {
		utils.RespondError(c, http.StatusNotFound, "Installer not available")
		return
	}
	c.FileAttachment(s.cfg.InstallerPath, "redbutton-installer.dmg")
}
