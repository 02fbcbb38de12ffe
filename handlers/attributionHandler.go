package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/models"
)

// Read-only query surface over the committed ledger.

func ListAttributionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.AttributionFilter

		if v := c.Query("resource_kind"); v != "" {
			kind := models.ResourceKind(v)
			if !kind.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource kind"})
				return
			}
			filter.ResourceKind = &kind
		}
		if v := c.Query("action"); v != "" {
			action := models.MovementAction(v)
			if !action.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
				return
			}
			filter.Action = &action
		}
		filter.ResourceId = intQuery(c, "resource_id")
		filter.ToUserId = intQuery(c, "to_user_id")
		filter.FromDepotId = intQuery(c, "from_depot_id")

		var err error
		filter.DateFrom, err = timeQuery(c, "date_from")
		if err == nil {
			filter.DateTo, err = timeQuery(c, "date_to")
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be RFC3339"})
			return
		}

		limit := config.SearchLimit
		if v := intQuery(c, "limit"); v != nil {
			limit = *v
		}

		attributions, err := models.GetAttributions(c.Request.Context(), filter, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total, err := models.CountAttributions(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": attributions, "total": total})
	}
}

// GET /api/attributions/:id
// The depot and user names are resolved through the directory cache;
// a failed lookup leaves the field empty rather than failing the read.
func GetAttributionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attribution id"})
			return
		}

		attribution, err := models.GetAttribution(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var fromDepotName, toUserName string
		if attribution.FromDepotId != nil {
			fromDepotName, _ = models.GetDepotName(c.Request.Context(), *attribution.FromDepotId)
		}
		if attribution.ToUserId != nil {
			toUserName, _ = models.GetUserName(c.Request.Context(), *attribution.ToUserId)
		}

		c.JSON(http.StatusOK, gin.H{
			"attribution":     attribution,
			"from_depot_name": fromDepotName,
			"to_user_name":    toUserName,
		})
	}
}

// GET /api/attributions/:id/history
func GetAttributionHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attribution id"})
			return
		}

		history, err := models.GetAttributionHistory(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, history)
	}
}

// GET /api/resources/:kind/:id/history
func GetResourceHistoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := models.ResourceKind(c.Param("kind"))
		if !kind.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource kind"})
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
			return
		}

		limit := config.SearchLimit
		if v := intQuery(c, "limit"); v != nil {
			limit = *v
		}

		histories, err := models.GetResourceHistories(c.Request.Context(), kind, id, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, histories)
	}
}

func intQuery(c *gin.Context, name string) *int {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
