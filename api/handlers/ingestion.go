package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	ingestionerrors "github.com/mtauhidul/ats-backend-demo-sub000/internal/errors"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/ingestion"
)

// GetIngestionStatus returns the merged persisted + in-memory state of the
// ingestion scheduler.
func GetIngestionStatus(orchestrator *ingestion.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := orchestrator.Status(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

func EnableIngestion(orchestrator *ingestion.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orchestrator.SetEnabled(c.Request.Context(), true); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"enabled": true})
	}
}

func DisableIngestion(orchestrator *ingestion.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orchestrator.SetEnabled(c.Request.Context(), false); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"enabled": false})
	}
}

// SetIngestionInterval updates the polling interval; takes effect on the
// next scheduled tick.
func SetIngestionInterval(orchestrator *ingestion.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request dto.SetIntervalRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := orchestrator.SetInterval(c.Request.Context(), request.Minutes)
		if err != nil {
			if errors.Is(err, ingestionerrors.ErrIntervalOutOfRange) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"intervalMinutes": request.Minutes})
	}
}

// TriggerIngestion starts a cycle on demand. A cycle already in progress
// answers 409.
func TriggerIngestion(orchestrator *ingestion.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := orchestrator.Trigger(c.Request.Context())
		if err != nil {
			switch {
			case errors.Is(err, ingestionerrors.ErrIngestionRunning):
				c.JSON(http.StatusConflict, gin.H{"error": "ingestion already running"})
			case errors.Is(err, ingestionerrors.ErrIngestionDisabled):
				c.JSON(http.StatusConflict, gin.H{"error": "ingestion is disabled"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// BackfillIngestion fetches a date range for one account through the regular
// processing path.
func BackfillIngestion(orchestrator *ingestion.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request dto.BackfillRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := orchestrator.Backfill(c.Request.Context(), request)
		if err != nil {
			switch {
			case errors.Is(err, ingestionerrors.ErrIngestionRunning):
				c.JSON(http.StatusConflict, gin.H{"error": "ingestion already running"})
			case errors.Is(err, ingestionerrors.ErrAccountNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ingestionerrors.ErrAccountInactive):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
