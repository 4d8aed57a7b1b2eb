package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/models"
	"github.com/sprintforge/backend/internal/repository"
	"github.com/sprintforge/backend/pkg/logger"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

type testEnv struct {
	db      *gorm.DB
	sprints repository.SprintRepository
	pbis    repository.PBIRepository
	stories repository.StoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Sprint{}, &models.PBI{}, &models.Story{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return &testEnv{
		db:      db,
		sprints: repository.NewSprintRepository(db),
		pbis:    repository.NewPBIRepository(db),
		stories: repository.NewStoryRepository(db),
	}
}

func (e *testEnv) seedSprint(t *testing.T) *models.Sprint {
	t.Helper()
	ctx := context.Background()
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	sprint := &models.Sprint{Name: "Sprint 1", StartDate: &start, EndDate: &end}
	require.NoError(t, e.sprints.Create(ctx, sprint))
	return sprint
}

func (e *testEnv) seedPBI(t *testing.T, sprintID uuid.UUID) *models.PBI {
	t.Helper()
	pbi := &models.PBI{Title: "PBI Login y Seguridad", SprintID: &sprintID}
	require.NoError(t, e.pbis.Create(context.Background(), pbi))
	return pbi
}

func (e *testEnv) seedStory(t *testing.T, pbiID uuid.UUID, title string, businessValue, criticity int) *models.Story {
	t.Helper()
	points := 3
	crit := models.Criticity(criticity)
	story := &models.Story{
		Title:          title,
		PBIID:          pbiID,
		RawDescription: "Como usuario quiero iniciar sesión de forma segura",
		StoryPoints:    &points,
		BusinessValue:  &businessValue,
		Criticity:      &crit,
		StoryType:      models.StoryTypeUser,
	}
	require.NoError(t, e.stories.Create(context.Background(), story))
	return story
}
