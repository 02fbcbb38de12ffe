package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/utils"
	"github.com/parcops/parc_backend/workflow"
	"github.com/sirupsen/logrus"
)

// ExecuteMovementHandler is the single mutating entry point of the ledger.
// POST /api/movements
func ExecuteMovementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req workflow.MovementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Best-effort redis lock per resource to shed obviously-colliding
		// requests early. Correctness does not depend on it: the database
		// transaction's conflict detection stays authoritative.
		redisLock := config.GetRedisLock()
		if redisLock != nil {
			key := fmt.Sprintf("movement:%s:%d", req.ResourceKind, req.ResourceId)
			lock, err := redisLock.Obtain(c.Request.Context(), key, 30*time.Second, nil)
			if err == redislock.ErrNotObtained {
				c.JSON(http.StatusConflict, gin.H{
					"error":     utils.ErrorMovementConflict.Error(),
					"retryable": true,
				})
				return
			} else if err != nil {
				logger.WithFields(logrus.Fields{
					"module":   "movementHandler.go",
					"funcName": "ExecuteMovementHandler",
					"key":      key,
				}).Warn("error obtaining redis lock; proceeding without it: " + err.Error())
			} else {
				defer func() {
					if releaseErr := lock.Release(c.Request.Context()); releaseErr != nil {
						logger.WithFields(logrus.Fields{
							"module":   "movementHandler.go",
							"funcName": "ExecuteMovementHandler",
							"key":      key,
						}).Warn("failed to release redis lock: " + releaseErr.Error())
					}
				}()
			}
		}

		attribution, err := workflow.ExecuteMovement(c.Request.Context(), &req)
		if err != nil {
			c.JSON(movementErrorStatus(err), gin.H{
				"error":     err.Error(),
				"retryable": utils.IsRetryableMovementError(err),
			})
			return
		}

		c.JSON(http.StatusCreated, attribution)
	}
}

func movementErrorStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrorUnknownResourceKind):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrorInsufficientStock),
		errors.Is(err, utils.ErrorVehicleAlreadyAssigned),
		errors.Is(err, utils.ErrorVehicleNotAssigned):
		return http.StatusUnprocessableEntity
	case errors.Is(err, utils.ErrorMovementConflict):
		return http.StatusConflict
	case errors.Is(err, utils.ErrorMovementTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
