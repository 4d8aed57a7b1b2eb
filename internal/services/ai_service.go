package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/clients/openai"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"github.com/sprintforge/backend/pkg/logger"
	"go.uber.org/zap"
)

const minIdeaLength = 10

const sprintGoalSystemPrompt = "Eres un asistente experto en metodologías ágiles. " +
	"A partir de la lista de historias de usuario de un sprint, redacta un objetivo " +
	"de sprint conciso, en una o dos frases, en español."

const storySystemPrompt = "Eres un asistente experto en redacción de historias de usuario. " +
	"A partir de la idea dada, devuelve únicamente un JSON con el formato " +
	`{"historia": "...", "criterios": ["...", "..."]}` +
	" donde historia sigue la plantilla 'Como <rol> quiero <acción> para <beneficio>' " +
	"y criterios es una lista de criterios de aceptación verificables."

// AIService generates sprint goals and story refinements through an LLM.
type AIService interface {
	GenerateSprintGoal(ctx context.Context, sprintID uuid.UUID) (string, error)
	GenerateDescriptionAndCriteria(ctx context.Context, storyID uuid.UUID) (*models.Story, error)
}

type aiService struct {
	llm     openai.Client
	sprints repository.SprintRepository
	stories repository.StoryRepository
}

// NewAIService wires the LLM client to sprint data. A nil client is
// allowed; generation then reports the upstream as unavailable.
func NewAIService(llm openai.Client, sprints repository.SprintRepository, stories repository.StoryRepository) AIService {
	return &aiService{llm: llm, sprints: sprints, stories: stories}
}

// GenerateSprintGoal summarizes every story in the sprint into a goal.
// A sprint with no story content has nothing to summarize and is
// reported as not found.
func (s *aiService) GenerateSprintGoal(ctx context.Context, sprintID uuid.UUID) (string, error) {
	sprint, err := s.sprints.GetTree(ctx, sprintID)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, pbi := range sprint.PBIs {
		for _, story := range pbi.Stories {
			line := strings.TrimSpace(story.Title)
			if desc := strings.TrimSpace(story.RawDescription); desc != "" {
				line = line + ". " + desc
			}
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	if len(lines) == 0 {
		return "", apperrors.New(apperrors.CodeNotFound, "sprint has no stories to summarize")
	}

	if s.llm == nil {
		return "", apperrors.New(apperrors.CodeUnavailable, "text generation is not configured")
	}

	goal, err := s.llm.GenerateText(ctx, sprintGoalSystemPrompt, strings.Join(lines, "\n"))
	if err != nil {
		logger.L().Error("sprint goal generation failed", zap.String("sprint_id", sprintID.String()), zap.Error(err))
		return "", apperrors.Wrap(err, apperrors.CodeUnavailable, "text generation failed")
	}
	return strings.TrimSpace(goal), nil
}

type storyRefinement struct {
	Historia  string   `json:"historia"`
	Criterios []string `json:"criterios"`
}

// GenerateDescriptionAndCriteria rewrites a story's raw idea into a
// formatted description plus acceptance criteria and persists both.
func (s *aiService) GenerateDescriptionAndCriteria(ctx context.Context, storyID uuid.UUID) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	idea := strings.TrimSpace(story.RawDescription)
	if len(idea) < minIdeaLength {
		return nil, apperrors.New(apperrors.CodeInvalid,
			fmt.Sprintf("story idea must be at least %d characters long", minIdeaLength))
	}

	if s.llm == nil {
		return nil, apperrors.New(apperrors.CodeUnavailable, "text generation is not configured")
	}

	raw, err := s.llm.GenerateText(ctx, storySystemPrompt, idea)
	if err != nil {
		logger.L().Error("story refinement failed", zap.String("story_id", storyID.String()), zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "text generation failed")
	}

	var refinement storyRefinement
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &refinement); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generated response is not valid JSON")
	}
	if refinement.Historia == "" {
		return nil, apperrors.New(apperrors.CodeInternal, "generated response is missing the story text")
	}

	story.FormattedDescription = refinement.Historia
	story.AcceptanceCriteria = strings.Join(refinement.Criterios, "\n")
	if err := s.stories.Update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// stripCodeFences removes a surrounding markdown code fence, which chat
// models often wrap JSON answers in despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
