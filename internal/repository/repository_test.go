package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/models"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedSprintTree(t *testing.T, db *gorm.DB) *models.Sprint {
	t.Helper()
	ctx := context.Background()
	sprints := NewSprintRepository(db)
	pbis := NewPBIRepository(db)
	stories := NewStoryRepository(db)

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	sprint := &models.Sprint{Name: "Sprint 1", StartDate: &start, EndDate: &end}
	require.NoError(t, sprints.Create(ctx, sprint))

	for i := 0; i < 2; i++ {
		pbi := &models.PBI{Title: "PBI", SprintID: &sprint.ID}
		require.NoError(t, pbis.Create(ctx, pbi))
		for j := 0; j < 3; j++ {
			points := 3
			require.NoError(t, stories.Create(ctx, &models.Story{
				Title:       "Story",
				PBIID:       pbi.ID,
				StoryPoints: &points,
				StoryType:   models.StoryTypeUser,
			}))
		}
	}
	return sprint
}

func TestSprintGetTree(t *testing.T) {
	db := newTestDB(t)
	sprint := seedSprintTree(t, db)

	got, err := NewSprintRepository(db).GetTree(context.Background(), sprint.ID)
	require.NoError(t, err)
	require.Len(t, got.PBIs, 2)
	for _, pbi := range got.PBIs {
		require.Len(t, pbi.Stories, 3)
	}
}

func TestSprintGetTreeNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := NewSprintRepository(db).GetTree(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSprintDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	sprint := seedSprintTree(t, db)
	ctx := context.Background()

	require.NoError(t, NewSprintRepository(db).Delete(ctx, sprint.ID))

	var pbiCount, storyCount int64
	require.NoError(t, db.Model(&models.PBI{}).Count(&pbiCount).Error)
	require.NoError(t, db.Model(&models.Story{}).Count(&storyCount).Error)
	require.Zero(t, pbiCount)
	require.Zero(t, storyCount)
}

func TestPBIDeleteCascadesToStories(t *testing.T) {
	db := newTestDB(t)
	sprint := seedSprintTree(t, db)
	ctx := context.Background()

	tree, err := NewSprintRepository(db).GetTree(ctx, sprint.ID)
	require.NoError(t, err)
	target := tree.PBIs[0]

	require.NoError(t, NewPBIRepository(db).Delete(ctx, target.ID))

	var storyCount int64
	require.NoError(t, db.Model(&models.Story{}).Count(&storyCount).Error)
	require.EqualValues(t, 3, storyCount)

	_, err = NewPBIRepository(db).GetByID(ctx, target.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestPBIWithoutSprintAllowed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pbi := &models.PBI{Title: "Backlog item"}
	require.NoError(t, NewPBIRepository(db).Create(ctx, pbi))

	got, err := NewPBIRepository(db).GetByID(ctx, pbi.ID)
	require.NoError(t, err)
	require.Nil(t, got.SprintID)
}

func TestStoryListBySprint(t *testing.T) {
	db := newTestDB(t)
	sprint := seedSprintTree(t, db)

	stories, err := NewStoryRepository(db).ListBySprint(context.Background(), sprint.ID)
	require.NoError(t, err)
	require.Len(t, stories, 6)
}

func TestUpdatePrioritiesTransactional(t *testing.T) {
	db := newTestDB(t)
	sprint := seedSprintTree(t, db)
	ctx := context.Background()
	repo := NewStoryRepository(db)

	stories, err := repo.ListBySprint(ctx, sprint.ID)
	require.NoError(t, err)

	updates := map[uuid.UUID]models.Priority{}
	for i, s := range stories {
		updates[s.ID] = models.Priority(i % 3)
	}
	require.NoError(t, repo.UpdatePriorities(ctx, updates))

	stories, err = repo.ListBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	for _, s := range stories {
		require.NotNil(t, s.Priority)
		require.Equal(t, updates[s.ID], *s.Priority)
	}
}

func TestDeleteMissingSprint(t *testing.T) {
	db := newTestDB(t)

	err := NewSprintRepository(db).Delete(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
