package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/api/types"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	apperrors "github.com/sprintforge/backend/pkg/errors"
)

// PBIsHandler serves product backlog item CRUD.
type PBIsHandler struct {
	pbis     repository.PBIRepository
	sprints  repository.SprintRepository
	validate Validator
}

func NewPBIsHandler(pbis repository.PBIRepository, sprints repository.SprintRepository, validate Validator) *PBIsHandler {
	return &PBIsHandler{pbis: pbis, sprints: sprints, validate: validate}
}

func (h *PBIsHandler) resolveSprintID(r *http.Request, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalid, "sprint_id must be a valid UUID")
	}
	if _, err := h.sprints.GetByID(r.Context(), id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *PBIsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreatePBIRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid pbi payload"))
		return
	}
	sprintID, err := h.resolveSprintID(r, req.SprintID)
	if err != nil {
		writeError(w, err)
		return
	}

	pbi := &models.PBI{
		Title:       req.Title,
		Description: req.Description,
		SprintID:    sprintID,
	}
	if err := h.pbis.Create(r.Context(), pbi); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pbi)
}

func (h *PBIsHandler) ListBySprint(w http.ResponseWriter, r *http.Request) {
	sprintID, err := pathUUID(r, "sprint_id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.sprints.GetByID(r.Context(), sprintID); err != nil {
		writeError(w, err)
		return
	}
	pbis, err := h.pbis.ListBySprint(r.Context(), sprintID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pbis)
}

func (h *PBIsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	pbi, err := h.pbis.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pbi)
}

func (h *PBIsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.UpdatePBIRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid pbi payload"))
		return
	}

	pbi, err := h.pbis.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Title != nil {
		pbi.Title = *req.Title
	}
	if req.Description != nil {
		pbi.Description = *req.Description
	}
	if req.SprintID != nil {
		sprintID, err := h.resolveSprintID(r, req.SprintID)
		if err != nil {
			writeError(w, err)
			return
		}
		pbi.SprintID = sprintID
	}
	if err := h.pbis.Update(r.Context(), pbi); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pbi)
}

func (h *PBIsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.pbis.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
