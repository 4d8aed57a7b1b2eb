package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/ml"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	"github.com/sprintforge/backend/pkg/logger"
	"go.uber.org/zap"
)

// RankedStory is one entry of a sprint prioritization result, ordered
// from highest to lowest inferred priority.
type RankedStory struct {
	StoryID   uuid.UUID `json:"story_id"`
	Title     string    `json:"title"`
	Prioridad string    `json:"prioridad"`

	class int
}

// PriorityService runs priority inference for single stories and whole sprints.
type PriorityService interface {
	PredictPriority(ctx context.Context, f ml.Features) (ml.Prediction, error)
	PrioritizeSprint(ctx context.Context, sprintID uuid.UUID) ([]RankedStory, error)
}

type priorityService struct {
	engine  *ml.Engine
	sprints repository.SprintRepository
	stories repository.StoryRepository

	// one in-flight prioritization per sprint
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewPriorityService wires the inference engine to the sprint data.
func NewPriorityService(engine *ml.Engine, sprints repository.SprintRepository, stories repository.StoryRepository) PriorityService {
	return &priorityService{
		engine:  engine,
		sprints: sprints,
		stories: stories,
		locks:   map[uuid.UUID]*sync.Mutex{},
	}
}

func (s *priorityService) PredictPriority(ctx context.Context, f ml.Features) (ml.Prediction, error) {
	return s.engine.Predict(ctx, f)
}

func (s *priorityService) sprintLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// PrioritizeSprint infers a priority for every story planned into the
// sprint, persists all of them in one transaction, and returns the
// stories ordered from highest to lowest priority. A story whose
// inference fails is logged and skipped rather than aborting the batch.
func (s *priorityService) PrioritizeSprint(ctx context.Context, sprintID uuid.UUID) ([]RankedStory, error) {
	lock := s.sprintLock(sprintID)
	lock.Lock()
	defer lock.Unlock()

	sprint, err := s.sprints.GetTree(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedStory, 0)
	updates := map[uuid.UUID]models.Priority{}

	for _, pbi := range sprint.PBIs {
		for _, story := range pbi.Stories {
			f := ml.Features{
				StoryPoints:          intOrZero(story.StoryPoints),
				BusinessValue:        intOrZero(story.BusinessValue),
				Criticity:            criticityOrZero(story.Criticity),
				InternalDependencies: story.InternalDependencies,
				Continuation:         story.Continuation,
				StoryType:            story.StoryType.Name(),
			}
			p, err := s.engine.Predict(ctx, f)
			if err != nil {
				logger.L().Warn("skipping story in sprint prioritization",
					zap.String("sprint_id", sprintID.String()),
					zap.String("story_id", story.ID.String()),
					zap.Error(err),
				)
				continue
			}
			updates[story.ID] = models.Priority(p.Class)
			ranked = append(ranked, RankedStory{
				StoryID:   story.ID,
				Title:     story.Title,
				Prioridad: p.Label,
				class:     p.Class,
			})
		}
	}

	if err := s.stories.UpdatePriorities(ctx, updates); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].class > ranked[j].class
	})
	return ranked, nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func criticityOrZero(c *models.Criticity) int {
	if c == nil {
		return 0
	}
	return int(*c)
}
