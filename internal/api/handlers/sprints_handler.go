package handlers

import (
	"net/http"

	"github.com/sprintforge/backend/internal/api/types"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	apperrors "github.com/sprintforge/backend/pkg/errors"
)

// SprintsHandler serves sprint CRUD.
type SprintsHandler struct {
	sprints  repository.SprintRepository
	validate Validator
}

func NewSprintsHandler(sprints repository.SprintRepository, validate Validator) *SprintsHandler {
	return &SprintsHandler{sprints: sprints, validate: validate}
}

func (h *SprintsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSprintRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid sprint payload"))
		return
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		writeError(w, apperrors.New(apperrors.CodeInvalid, "end_date must not precede start_date"))
		return
	}

	sprint := &models.Sprint{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := h.sprints.Create(r.Context(), sprint); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sprint)
}

func (h *SprintsHandler) List(w http.ResponseWriter, r *http.Request) {
	sprints, err := h.sprints.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sprints)
}

func (h *SprintsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	sprint, err := h.sprints.GetTree(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sprint)
}

func (h *SprintsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.UpdateSprintRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid sprint payload"))
		return
	}

	sprint, err := h.sprints.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Name != nil {
		sprint.Name = *req.Name
	}
	if req.StartDate != nil {
		sprint.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		sprint.EndDate = req.EndDate
	}
	if sprint.StartDate != nil && sprint.EndDate != nil && sprint.EndDate.Before(*sprint.StartDate) {
		writeError(w, apperrors.New(apperrors.CodeInvalid, "end_date must not precede start_date"))
		return
	}
	if err := h.sprints.Update(r.Context(), sprint); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sprint)
}

func (h *SprintsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.sprints.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
