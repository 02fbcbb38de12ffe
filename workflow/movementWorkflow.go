package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/models"
	"github.com/parcops/parc_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MovementRequest struct {
	ResourceKind models.ResourceKind   `json:"resource_kind" binding:"required,resourcekind"`
	ResourceId   int                   `json:"resource_id" binding:"required"`
	Action       models.MovementAction `json:"action" binding:"required,movementaction"`
	Quantity     decimal.Decimal       `json:"quantity"`
	FromDepotId  *int                  `json:"from_depot_id"`
	ToUserId     *int                  `json:"to_user_id"`
	Note         string                `json:"note"`
}

// MOVEMENT_TIMEOUT_SECONDS bounds transaction acquisition and commit (default 10).
func movementTimeout() time.Duration {
	return time.Duration(utils.IntFromEnv("MOVEMENT_TIMEOUT_SECONDS", 10)) * time.Second
}

// ExecuteMovement runs one logical movement as a single database transaction:
// load the resource, validate and compute the transition, persist it, append
// the Attribution + AttributionHistory pair, commit. Any failure aborts the
// transaction and leaves no partial write behind.
//
// The executor attempts exactly once. ErrorMovementConflict and
// ErrorMovementTimeout are the only errors worth retrying, and retry policy
// belongs to the caller.
func ExecuteMovement(ctx context.Context, req *MovementRequest) (*models.Attribution, error) {
	logger := config.GetLogger()

	binding, err := models.ResolveResourceKind(req.ResourceKind)
	if err != nil {
		return nil, err
	}
	if !req.Action.IsValid() {
		return nil, errors.New("invalid action: " + string(req.Action))
	}
	if req.ResourceId <= 0 {
		return nil, utils.ErrorRecordNotFound
	}

	qty := req.Quantity
	if binding.Kind == models.ResourceKindVehicle {
		// vehicles move whole
		qty = decimal.NewFromInt(1)
	} else if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}

	authorId, _ := utils.GetUserIdFromContext(ctx)
	authorName, ok := utils.GetUserNameFromContext(ctx)
	if !ok || authorName == "" {
		authorName = "System"
	}
	correlationId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || correlationId == "" {
		correlationId = uuid.NewString()
	}

	tctx, cancel := context.WithTimeout(ctx, movementTimeout())
	defer cancel()

	db := config.GetDB()
	var attribution *models.Attribution
	err = db.WithContext(tctx).Transaction(func(tx *gorm.DB) error {
		resource, err := binding.Store.LoadForUpdate(tx, req.ResourceId)
		if err != nil {
			return err
		}

		before, err := json.Marshal(resource)
		if err != nil {
			return err
		}

		if err := binding.Rules.Apply(resource, req.Action, qty, req.FromDepotId, req.ToUserId); err != nil {
			return err
		}

		if err := binding.Store.Save(tx, resource); err != nil {
			return err
		}

		after, err := json.Marshal(resource)
		if err != nil {
			return err
		}

		attribution = &models.Attribution{
			ResourceKind:  binding.Kind,
			ResourceId:    req.ResourceId,
			Quantity:      qty,
			FromDepotId:   req.FromDepotId,
			ToUserId:      req.ToUserId,
			Action:        req.Action,
			AuthorId:      authorId,
			AuthorName:    authorName,
			Note:          req.Note,
			CorrelationId: correlationId,
		}
		return appendLedgerPair(tx, attribution, before, after, req.Note)
	})
	if err != nil {
		err = mapMovementError(err)
		config.LogError(logger, "movementWorkflow.go", "ExecuteMovement", "Transaction", req, err)
		return nil, err
	}
	return attribution, nil
}

// translate driver-level failures into the movement error taxonomy
func mapMovementError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.ErrorMovementTimeout
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213: // deadlock victim; the other transaction committed
			return utils.ErrorMovementConflict
		case 1205: // lock wait timeout
			return utils.ErrorMovementTimeout
		}
	}
	return err
}
