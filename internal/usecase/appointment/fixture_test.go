package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/infra/repository"
	"github.com/agendaai/agenda-api/internal/models"
)

// ======================================================
// Dublês
// ======================================================

type openCalendar struct{}

func (openCalendar) IsNationalHoliday(time.Time) bool      { return false }
func (openCalendar) IsLocalHoliday(string, time.Time) bool { return false }

type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context, professionalID uint, day time.Time) (func(), error) {
	return func() {}, nil
}

// ======================================================
// Fixture
// ======================================================

type fixture struct {
	db      *gorm.DB
	repo    *repository.ScheduleGormRepository
	engine  *domain.Engine
	auditor *audit.Dispatcher

	est          *models.Establishment
	policy       *models.SchedulePolicy
	service      *models.Service
	professional *models.Professional
}

// setup monta um banco em memória com agenda mínima: seg-sex 08:00-18:00,
// serviço de 30min, um profissional. cache=shared porque o worker de
// auditoria escreve em outra conexão.
func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") +
		"?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Establishment{},
		&models.Professional{},
		&models.Service{},
		&models.SchedulePolicy{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	))

	est := &models.Establishment{Name: "Estúdio X", Slug: "estudio-x", Timezone: "UTC"}
	require.NoError(t, db.Create(est).Error)

	pol := &models.SchedulePolicy{
		EstablishmentID:           est.ID,
		WorkPattern:               "mon_fri",
		OpenTime:                  "08:00",
		CloseTime:                 "18:00",
		DefaultServiceDurationMin: 30,
		MaxConcurrent:             1,
		ReschedulingAllowed:       true,
	}
	require.NoError(t, db.Create(pol).Error)

	svc := &models.Service{
		EstablishmentID: est.ID,
		Name:            "Corte",
		DurationMin:     30,
		Price:           50,
		Active:          true,
	}
	require.NoError(t, db.Create(svc).Error)

	prof := &models.Professional{EstablishmentID: est.ID, Name: "Ana", Active: true}
	require.NoError(t, db.Create(prof).Error)

	repo := repository.NewScheduleGormRepository(db)
	return &fixture{
		db:           db,
		repo:         repo,
		engine:       domain.NewEngine(repo, openCalendar{}),
		auditor:      audit.NewDispatcher(audit.New(db)),
		est:          est,
		policy:       pol,
		service:      svc,
		professional: prof,
	}
}

func (f *fixture) savePolicy(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Save(f.policy).Error)
}

// 2026-03-02 é segunda-feira.
const testDay = "2026-03-02"

func dayClock(hhmm string) time.Time {
	tt, _ := time.Parse("2006-01-02 15:04", testDay+" "+hhmm)
	return tt.UTC()
}

func (f *fixture) createInput(hhmm string) CreateAppointmentInput {
	return CreateAppointmentInput{
		EstablishmentID: f.est.ID,
		ProfessionalID:  f.professional.ID,
		ServiceID:       f.service.ID,
		ClientName:      "Maria",
		ClientPhone:     "11999990000",
		Date:            testDay,
		Time:            hhmm,
		Now:             dayClock("07:00"),
	}
}

func (f *fixture) mustCreate(t *testing.T, hhmm string) *models.Appointment {
	t.Helper()
	uc := NewCreateAppointment(f.repo, f.engine, noopLocker{}, f.auditor)
	ap, err := uc.Execute(context.Background(), f.createInput(hhmm))
	require.NoError(t, err)
	require.NotNil(t, ap)
	return ap
}
