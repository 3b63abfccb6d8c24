package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/settings"
	"roundbread-bot/logging"
)

type handler struct {
	settings *settings.Settings
}

type thresholdsResponse struct {
	FilterBreadLabelConfidence  float64 `json:"FILTER_BREAD_LABEL_CONFIDENCE"`
	FilterBreadSegConfidence    float64 `json:"FILTER_BREAD_SEG_CONFIDENCE"`
	BreadDetectionConfidence    float64 `json:"BREAD_DETECTION_CONFIDENCE"`
	OverrideDetectionConfidence float64 `json:"OVERRIDE_DETECTION_CONFIDENCE"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) updateSettings(c *gin.Context) {
	var req settings.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	th, err := h.settings.Apply(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logging.Log("Admin", logrus.InfoLevel, fmt.Sprintf("Пороги обновлены: %+v", th))
	c.JSON(http.StatusOK, thresholdsResponse{
		FilterBreadLabelConfidence:  th.FilterBreadLabelConfidence,
		FilterBreadSegConfidence:    th.FilterBreadSegConfidence,
		BreadDetectionConfidence:    th.BreadDetectionConfidence,
		OverrideDetectionConfidence: th.OverrideDetectionConfidence,
	})
}
