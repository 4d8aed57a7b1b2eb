package handlers

import (
	"net/http"

	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/seed"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"github.com/sprintforge/backend/pkg/logger"
	"gorm.io/gorm"
)

// MaintenanceHandler rebuilds the database with seed data. It is only
// mounted in development.
type MaintenanceHandler struct {
	db *gorm.DB
}

func NewMaintenanceHandler(db *gorm.DB) *MaintenanceHandler {
	return &MaintenanceHandler{db: db}
}

// ResetDB drops all tables, migrates the schema, and loads seed data.
func (h *MaintenanceHandler) ResetDB(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.WithContext(ctx).Migrator().DropTable(&models.Story{}, &models.PBI{}, &models.Sprint{}); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInternal, "drop tables failed"))
		return
	}
	if err := h.db.WithContext(ctx).AutoMigrate(&models.Sprint{}, &models.PBI{}, &models.Story{}); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInternal, "migrate failed"))
		return
	}
	if err := seed.Run(ctx, h.db); err != nil {
		writeError(w, err)
		return
	}

	logger.L().Info("database reset with seed data")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
