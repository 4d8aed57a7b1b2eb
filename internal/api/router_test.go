package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sprintforge/backend/internal/clients/openai"
	"github.com/sprintforge/backend/internal/ml"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	"github.com/sprintforge/backend/internal/services"
	"github.com/sprintforge/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f.reply, f.err
}

type testServer struct {
	srv *httptest.Server
	db  *gorm.DB
}

func newTestServer(t *testing.T, appEnv string, llm openai.Client) *testServer {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Sprint{}, &models.PBI{}, &models.Story{}))

	sprints := repository.NewSprintRepository(db)
	pbis := repository.NewPBIRepository(db)
	stories := repository.NewStoryRepository(db)
	engine := ml.NewEngine(filepath.Join("..", "ml", "testdata", "priority_model.json"))

	router := NewRouter(Dependencies{
		DB:         db,
		Sprints:    sprints,
		PBIs:       pbis,
		Stories:    stories,
		Priorities: services.NewPriorityService(engine, sprints, stories),
		AI:         services.NewAIService(llm, sprints, stories),
		Validate:   validator.New(validator.WithRequiredStructEnabled()),
		AppEnv:     appEnv,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return &testServer{srv: srv, db: db}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createSprint(t *testing.T, ts *testServer, name string) uuid.UUID {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/sprints/", map[string]any{
		"name":       name,
		"start_date": "2025-04-01T00:00:00Z",
		"end_date":   "2025-04-15T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var sprint models.Sprint
	require.NoError(t, json.Unmarshal(body, &sprint))
	return sprint.ID
}

func createPBI(t *testing.T, ts *testServer, sprintID uuid.UUID) uuid.UUID {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/pbis/", map[string]any{
		"title":     "PBI Login y Seguridad",
		"sprint_id": sprintID.String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var pbi models.PBI
	require.NoError(t, json.Unmarshal(body, &pbi))
	return pbi.ID
}

func createStory(t *testing.T, ts *testServer, pbiID uuid.UUID, title string, businessValue, criticity int) uuid.UUID {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/stories/"+pbiID.String(), map[string]any{
		"title":           title,
		"raw_description": "Como usuario quiero iniciar sesión de forma segura",
		"story_points":    3,
		"business_value":  businessValue,
		"criticity":       criticity,
		"story_type":      1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var story models.Story
	require.NoError(t, json.Unmarshal(body, &story))
	return story.ID
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, _ := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSprintLifecycle(t *testing.T) {
	ts := newTestServer(t, "test", nil)
	id := createSprint(t, ts, "Sprint 1")

	resp, body := ts.do(t, http.MethodGet, "/sprints/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sprints []models.Sprint
	require.NoError(t, json.Unmarshal(body, &sprints))
	require.Len(t, sprints, 1)

	resp, body = ts.do(t, http.MethodPut, "/sprints/"+id.String(), map[string]any{"name": "Sprint renombrado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sprint models.Sprint
	require.NoError(t, json.Unmarshal(body, &sprint))
	require.Equal(t, "Sprint renombrado", sprint.Name)

	resp, _ = ts.do(t, http.MethodDelete, "/sprints/"+id.String(), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/sprints/"+id.String(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSprintRejectsInvertedDates(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, body := ts.do(t, http.MethodPost, "/sprints/", map[string]any{
		"name":       "Sprint malo",
		"start_date": "2025-04-15T00:00:00Z",
		"end_date":   "2025-04-01T00:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, string(body), "invalid")
}

func TestSprintTreeIncludesStories(t *testing.T) {
	ts := newTestServer(t, "test", nil)
	sprintID := createSprint(t, ts, "Sprint 1")
	pbiID := createPBI(t, ts, sprintID)
	createStory(t, ts, pbiID, "Usuario puede iniciar sesión", 8, 2)

	resp, body := ts.do(t, http.MethodGet, "/sprints/"+sprintID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sprint models.Sprint
	require.NoError(t, json.Unmarshal(body, &sprint))
	require.Len(t, sprint.PBIs, 1)
	require.Len(t, sprint.PBIs[0].Stories, 1)
}

func TestPBIsBySprint(t *testing.T) {
	ts := newTestServer(t, "test", nil)
	sprintID := createSprint(t, ts, "Sprint 1")
	createPBI(t, ts, sprintID)

	resp, body := ts.do(t, http.MethodGet, "/pbis/by_sprint/"+sprintID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pbis []models.PBI
	require.NoError(t, json.Unmarshal(body, &pbis))
	require.Len(t, pbis, 1)

	resp, _ = ts.do(t, http.MethodGet, "/pbis/by_sprint/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePBIWithUnknownSprint(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, _ := ts.do(t, http.MethodPost, "/pbis/", map[string]any{
		"title":     "PBI huérfano",
		"sprint_id": uuid.NewString(),
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateStoryUnderMissingPBI(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, _ := ts.do(t, http.MethodPost, "/stories/"+uuid.NewString(), map[string]any{"title": "Huérfana"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStoryUpdateRejectsPriorityField(t *testing.T) {
	ts := newTestServer(t, "test", nil)
	sprintID := createSprint(t, ts, "Sprint 1")
	pbiID := createPBI(t, ts, sprintID)
	storyID := createStory(t, ts, pbiID, "Usuario puede iniciar sesión", 8, 2)

	resp, _ := ts.do(t, http.MethodPut, "/stories/"+storyID.String(), map[string]any{"priority": 2})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvalidUUIDPath(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, _ := ts.do(t, http.MethodGet, "/sprints/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPredictPriorityEndpoint(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, body := ts.do(t, http.MethodPost, "/ml/prioridad/", map[string]any{
		"story_points":   5,
		"business_value": 9,
		"criticity":      5,
		"story_type":     "user",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Prioridad string `json:"prioridad"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "alta", out.Prioridad)
}

func TestPredictPriorityRejectsNegative(t *testing.T) {
	ts := newTestServer(t, "test", nil)

	resp, _ := ts.do(t, http.MethodPost, "/ml/prioridad/", map[string]any{
		"story_points": -1,
		"story_type":   "user",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPrioritizeSprintEndpoint(t *testing.T) {
	ts := newTestServer(t, "test", nil)
	sprintID := createSprint(t, ts, "Sprint 1")
	pbiID := createPBI(t, ts, sprintID)
	createStory(t, ts, pbiID, "Historia de bajo valor", 2, 1)
	createStory(t, ts, pbiID, "Historia crítica", 9, 5)

	path := fmt.Sprintf("/ml/calcular_prioridades/%s/", sprintID)
	resp, body := ts.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Ordenadas []struct {
			Title     string `json:"title"`
			Prioridad string `json:"prioridad"`
		} `json:"ordenadas_por_prioridad"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Ordenadas, 2)
	require.Equal(t, "Historia crítica", out.Ordenadas[0].Title)
	require.Equal(t, "alta", out.Ordenadas[0].Prioridad)
	require.Equal(t, "baja", out.Ordenadas[1].Prioridad)
}

func TestSprintGoalEndpoint(t *testing.T) {
	llm := &fakeLLM{reply: "Entregar autenticación segura."}
	ts := newTestServer(t, "test", llm)
	sprintID := createSprint(t, ts, "Sprint 1")
	pbiID := createPBI(t, ts, sprintID)
	createStory(t, ts, pbiID, "Usuario puede iniciar sesión", 8, 2)

	resp, body := ts.do(t, http.MethodGet, "/ml/sprint_goal/"+sprintID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Goal string `json:"goal"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "Entregar autenticación segura.", out.Goal)
}

func TestSprintGoalEmptySprint(t *testing.T) {
	ts := newTestServer(t, "test", &fakeLLM{reply: "no-op"})
	sprintID := createSprint(t, ts, "Sprint vacío")

	resp, _ := ts.do(t, http.MethodGet, "/ml/sprint_goal/"+sprintID.String(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefineStoryEndpoint(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n{\"historia\": \"Como usuario quiero iniciar sesión\", \"criterios\": [\"Pide contraseña\"]}\n```"}
	ts := newTestServer(t, "test", llm)
	sprintID := createSprint(t, ts, "Sprint 1")
	pbiID := createPBI(t, ts, sprintID)
	storyID := createStory(t, ts, pbiID, "Usuario puede iniciar sesión", 8, 2)

	resp, body := ts.do(t, http.MethodPost, "/ml/stories/describir_criterios/"+storyID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		FormattedDescription string   `json:"formatted_description"`
		AcceptanceCriteria   []string `json:"acceptance_criteria"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "Como usuario quiero iniciar sesión", out.FormattedDescription)
	require.Equal(t, []string{"Pide contraseña"}, out.AcceptanceCriteria)
}

func TestRefineStoryWithoutClient(t *testing.T) {
	ts := newTestServer(t, "test", nil)
	sprintID := createSprint(t, ts, "Sprint 1")
	pbiID := createPBI(t, ts, sprintID)
	storyID := createStory(t, ts, pbiID, "Usuario puede iniciar sesión", 8, 2)

	resp, _ := ts.do(t, http.MethodPost, "/ml/stories/describir_criterios/"+storyID.String(), nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestResetDBOnlyInDevelopment(t *testing.T) {
	dev := newTestServer(t, "development", nil)
	resp, body := dev.do(t, http.MethodPost, "/reset-db", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var storyCount int64
	require.NoError(t, dev.db.Model(&models.Story{}).Count(&storyCount).Error)
	require.EqualValues(t, 16, storyCount)

	prod := newTestServer(t, "production", nil)
	resp, _ = prod.do(t, http.MethodPost, "/reset-db", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
