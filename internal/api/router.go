package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	"github.com/sprintforge/backend/internal/api/handlers"
	"github.com/sprintforge/backend/internal/api/middleware"
	"github.com/sprintforge/backend/internal/repository"
	"github.com/sprintforge/backend/internal/services"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	DB         *gorm.DB
	Sprints    repository.SprintRepository
	PBIs       repository.PBIRepository
	Stories    repository.StoryRepository
	Priorities services.PriorityService
	AI         services.AIService
	Validate   handlers.Validator
	AppEnv     string
}

// NewRouter builds the HTTP routing tree.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit(50, 100))
	r.Use(chimiddleware.Compress(5))

	health := handlers.NewHealthHandler(deps.DB)
	sprints := handlers.NewSprintsHandler(deps.Sprints, deps.Validate)
	pbis := handlers.NewPBIsHandler(deps.PBIs, deps.Sprints, deps.Validate)
	stories := handlers.NewStoriesHandler(deps.Stories, deps.PBIs, deps.Validate)
	ml := handlers.NewMLHandler(deps.Priorities, deps.AI, deps.Validate)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/sprints", func(r chi.Router) {
		r.Post("/", sprints.Create)
		r.Get("/", sprints.List)
		r.Get("/{id}", sprints.Get)
		r.Put("/{id}", sprints.Update)
		r.Delete("/{id}", sprints.Delete)
	})

	r.Route("/pbis", func(r chi.Router) {
		r.Post("/", pbis.Create)
		r.Get("/by_sprint/{sprint_id}", pbis.ListBySprint)
		r.Get("/{id}", pbis.Get)
		r.Put("/{id}", pbis.Update)
		r.Delete("/{id}", pbis.Delete)
	})

	r.Route("/stories", func(r chi.Router) {
		r.Post("/{pbi_id}", stories.Create)
		r.Get("/by_pbi/{pbi_id}", stories.ListByPBI)
		r.Get("/{id}", stories.Get)
		r.Put("/{id}", stories.Update)
		r.Delete("/{id}", stories.Delete)
	})

	r.Route("/ml", func(r chi.Router) {
		r.Post("/prioridad/", ml.PredictPriority)
		r.Post("/calcular_prioridades/{sprint_id}/", ml.PrioritizeSprint)
		r.Get("/sprint_goal/{sprint_id}", ml.SprintGoal)
		r.Post("/stories/describir_criterios/{story_id}", ml.RefineStory)
	})

	if deps.AppEnv == "development" {
		maintenance := handlers.NewMaintenanceHandler(deps.DB)
		r.Post("/reset-db", maintenance.ResetDB)
	}

	return r
}
