package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/models"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"github.com/sprintforge/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type storyFixture struct {
	title                string
	rawDescription       string
	criticity            models.Criticity
	storyPoints          int
	businessValue        int
	complexity           int
	storyType            models.StoryType
	continuation         int
	internalDependencies int
}

type pbiFixture struct {
	title       string
	description string
	stories     []storyFixture
}

type sprintFixture struct {
	name  string
	start time.Time
	end   time.Time
	pbis  []pbiFixture
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var fixtures = []sprintFixture{
	{
		name:  "Sprint 1",
		start: day(2025, time.April, 1),
		end:   day(2025, time.April, 15),
		pbis: []pbiFixture{
			{
				title:       "PBI Login y Seguridad",
				description: "Autenticación y gestión de sesiones",
				stories: []storyFixture{
					{"Usuario puede iniciar sesión", "Login básico", 2, 3, 8, 2, models.StoryTypeUser, 0, 0},
					{"Usuario puede cerrar sesión", "Logout visible y seguro", 1, 1, 5, 1, models.StoryTypeTechnical, 0, 1},
					{"Bloqueo tras intentos fallidos", "Bloqueo tras 3 intentos", 4, 5, 6, 3, models.StoryTypeUser, 0, 1},
					{"Recuperación de contraseña", "Enlace para reset", 2, 3, 7, 2, models.StoryTypeUser, 0, 0},
					{"Validación de correo", "Email válido al registrarse", 1, 2, 5, 1, models.StoryTypeTechnical, 0, 1},
					{"Registro de actividad", "Log de sesiones", 2, 3, 4, 2, models.StoryTypeTechnical, 0, 1},
					{"Inicio de sesión con doble factor", "OTP por email", 5, 5, 9, 4, models.StoryTypeUser, 0, 1},
					{"Página de error personalizada", "Pantalla bonita si falla login", 1, 1, 3, 1, models.StoryTypeUser, 0, 0},
				},
			},
		},
	},
	{
		name:  "Sprint 2",
		start: day(2025, time.April, 16),
		end:   day(2025, time.April, 30),
		pbis: []pbiFixture{
			{
				title:       "PBI Perfil de Usuario",
				description: "Gestión del perfil del usuario",
				stories: []storyFixture{
					{"Editar perfil", "Modificar nombre, email", 2, 3, 6, 2, models.StoryTypeUser, 0, 0},
					{"Subir foto de perfil", "Imagen visible", 1, 2, 4, 1, models.StoryTypeUser, 0, 0},
					{"Eliminar cuenta", "Borrar perfil del sistema", 3, 5, 7, 3, models.StoryTypeUser, 0, 1},
					{"Cambiar contraseña", "Seguridad de cuenta", 2, 3, 5, 2, models.StoryTypeUser, 0, 1},
					{"Ver historial de sesiones", "Lista de inicios recientes", 2, 3, 6, 2, models.StoryTypeTechnical, 0, 1},
					{"Notificaciones por email", "Avisos por cambios", 2, 2, 4, 2, models.StoryTypeTechnical, 0, 1},
					{"Configurar visibilidad de perfil", "Privado o público", 3, 3, 5, 2, models.StoryTypeUser, 0, 1},
					{"Validación de cambios", "Verificación de seguridad", 5, 4, 7, 3, models.StoryTypeTechnical, 0, 1},
				},
			},
		},
	},
}

// Run inserts the example sprints, PBIs, and stories. It is idempotent:
// sprints match by name, PBIs by title within a sprint, stories by title
// within a PBI.
func Run(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sf := range fixtures {
			sprint, err := ensureSprint(tx, sf)
			if err != nil {
				return err
			}
			for _, pf := range sf.pbis {
				pbi, err := ensurePBI(tx, sprint.ID, pf)
				if err != nil {
					return err
				}
				for _, stf := range pf.stories {
					if err := ensureStory(tx, pbi.ID, stf); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func ensureSprint(tx *gorm.DB, f sprintFixture) (*models.Sprint, error) {
	var sprint models.Sprint
	err := tx.Where("name = ?", f.name).First(&sprint).Error
	if err == nil {
		return &sprint, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "seed sprint lookup failed")
	}

	start, end := f.start, f.end
	sprint = models.Sprint{Name: f.name, StartDate: &start, EndDate: &end}
	if err := tx.Create(&sprint).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "seed sprint insert failed")
	}
	logger.L().Info("seeded sprint", zap.String("name", f.name))
	return &sprint, nil
}

func ensurePBI(tx *gorm.DB, sprintID uuid.UUID, f pbiFixture) (*models.PBI, error) {
	var pbi models.PBI
	err := tx.Where("title = ? AND sprint_id = ?", f.title, sprintID).First(&pbi).Error
	if err == nil {
		return &pbi, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "seed pbi lookup failed")
	}

	pbi = models.PBI{Title: f.title, Description: f.description, SprintID: &sprintID}
	if err := tx.Create(&pbi).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "seed pbi insert failed")
	}
	logger.L().Info("seeded pbi", zap.String("title", f.title))
	return &pbi, nil
}

func ensureStory(tx *gorm.DB, pbiID uuid.UUID, f storyFixture) error {
	var count int64
	err := tx.Model(&models.Story{}).Where("title = ? AND pbi_id = ?", f.title, pbiID).Count(&count).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "seed story lookup failed")
	}
	if count > 0 {
		return nil
	}

	criticity := f.criticity
	points := f.storyPoints
	value := f.businessValue
	complexity := f.complexity
	story := models.Story{
		Title:                f.title,
		PBIID:                pbiID,
		RawDescription:       f.rawDescription,
		Criticity:            &criticity,
		StoryPoints:          &points,
		BusinessValue:        &value,
		Complexity:           &complexity,
		StoryType:            f.storyType,
		Continuation:         f.continuation,
		InternalDependencies: f.internalDependencies,
	}
	if err := tx.Create(&story).Error; err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "seed story insert failed")
	}
	return nil
}
