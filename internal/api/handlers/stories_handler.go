package handlers

import (
	"net/http"

	"github.com/sprintforge/backend/internal/api/types"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	apperrors "github.com/sprintforge/backend/pkg/errors"
)

// StoriesHandler serves story CRUD. Stories are always created under an
// existing PBI; the inferred priority is read-only for clients.
type StoriesHandler struct {
	stories  repository.StoryRepository
	pbis     repository.PBIRepository
	validate Validator
}

func NewStoriesHandler(stories repository.StoryRepository, pbis repository.PBIRepository, validate Validator) *StoriesHandler {
	return &StoriesHandler{stories: stories, pbis: pbis, validate: validate}
}

func (h *StoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	pbiID, err := pathUUID(r, "pbi_id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.pbis.GetByID(r.Context(), pbiID); err != nil {
		writeError(w, err)
		return
	}

	var req types.CreateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid story payload"))
		return
	}

	story := &models.Story{
		Title:          req.Title,
		PBIID:          pbiID,
		RawDescription: req.RawDescription,
		Criticity:      req.Criticity,
		StoryPoints:    req.StoryPoints,
		BusinessValue:  req.BusinessValue,
		Complexity:     req.Complexity,
		StoryType:      models.StoryTypeUser,
	}
	if req.StoryType != nil {
		story.StoryType = *req.StoryType
	}
	if req.Continuation != nil {
		story.Continuation = *req.Continuation
	}
	if req.InternalDependencies != nil {
		story.InternalDependencies = *req.InternalDependencies
	}
	if err := h.stories.Create(r.Context(), story); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, story)
}

func (h *StoriesHandler) ListByPBI(w http.ResponseWriter, r *http.Request) {
	pbiID, err := pathUUID(r, "pbi_id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.pbis.GetByID(r.Context(), pbiID); err != nil {
		writeError(w, err)
		return
	}
	stories, err := h.stories.ListByPBI(r.Context(), pbiID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (h *StoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	story, err := h.stories.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.UpdateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid story payload"))
		return
	}

	story, err := h.stories.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Title != nil {
		story.Title = *req.Title
	}
	if req.RawDescription != nil {
		story.RawDescription = *req.RawDescription
	}
	if req.Criticity != nil {
		story.Criticity = req.Criticity
	}
	if req.StoryPoints != nil {
		story.StoryPoints = req.StoryPoints
	}
	if req.BusinessValue != nil {
		story.BusinessValue = req.BusinessValue
	}
	if req.Complexity != nil {
		story.Complexity = req.Complexity
	}
	if req.StoryType != nil {
		story.StoryType = *req.StoryType
	}
	if req.Continuation != nil {
		story.Continuation = *req.Continuation
	}
	if req.InternalDependencies != nil {
		story.InternalDependencies = *req.InternalDependencies
	}
	if err := h.stories.Update(r.Context(), story); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.stories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
