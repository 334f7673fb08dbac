package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
)

func setupTestRepo(t *testing.T) (*ScheduleGormRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Professional{},
		&models.Service{},
		&models.SchedulePolicy{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return NewScheduleGormRepository(db), db
}

func seedEstablishment(t *testing.T, db *gorm.DB) *models.Establishment {
	t.Helper()
	est := &models.Establishment{Name: "Estúdio X", Slug: "estudio-x", Timezone: "UTC"}
	require.NoError(t, db.Create(est).Error)
	return est
}

var dayStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func slot(hhmm string) time.Time {
	tt, _ := time.Parse("15:04", hhmm)
	return dayStart.Add(time.Duration(tt.Hour())*time.Hour + time.Duration(tt.Minute())*time.Minute)
}

func TestGetEstablishment(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	got, err := repo.GetEstablishmentByID(ctx, est.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "estudio-x", got.Slug)

	got, err = repo.GetEstablishmentBySlug(ctx, "estudio-x")
	require.NoError(t, err)
	require.NotNil(t, got)

	// ausência é (nil, nil), não erro
	got, err = repo.GetEstablishmentByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetEstablishmentBySlug(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetOrCreatePolicySeedsDefaults(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	pol, err := repo.GetOrCreatePolicy(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, "mon_fri", pol.WorkPattern)
	assert.Equal(t, "08:00", pol.OpenTime)
	assert.Equal(t, "18:00", pol.CloseTime)
	assert.Equal(t, 30, pol.DefaultServiceDurationMin)
	assert.True(t, pol.ReschedulingAllowed)

	// segundo acesso devolve a mesma linha
	again, err := repo.GetOrCreatePolicy(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, pol.ID, again.ID)

	var count int64
	db.Model(&models.SchedulePolicy{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateClientKeyedByPhone(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	c1, err := repo.GetOrCreateClient(ctx, est.ID, "Maria", "11999990000", "maria@example.com")
	require.NoError(t, err)

	// mesmo telefone reaproveita o cadastro, mesmo com nome diferente
	c2, err := repo.GetOrCreateClient(ctx, est.ID, "Maria Silva", "11999990000", "")
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)
	assert.Equal(t, "Maria", c2.Name)

	c3, err := repo.GetOrCreateClient(ctx, est.ID, "João", "11888880000", "")
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c3.ID)
}

func TestGetServiceAndProfessionalScoping(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	svc := &models.Service{EstablishmentID: est.ID, Name: "Corte", DurationMin: 30, Active: true}
	require.NoError(t, db.Create(svc).Error)
	prof := &models.Professional{EstablishmentID: est.ID, Name: "Ana", Active: true}
	require.NoError(t, db.Create(prof).Error)

	gotSvc, err := repo.GetService(ctx, est.ID, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, gotSvc)
	assert.Equal(t, "Corte", gotSvc.Name)

	gotProf, err := repo.GetProfessional(ctx, est.ID, prof.ID)
	require.NoError(t, err)
	require.NotNil(t, gotProf)

	// escopado por estabelecimento
	gotSvc, err = repo.GetService(ctx, est.ID+1, svc.ID)
	require.NoError(t, err)
	assert.Nil(t, gotSvc)

	gotProf, err = repo.GetProfessional(ctx, est.ID+1, prof.ID)
	require.NoError(t, err)
	assert.Nil(t, gotProf)
}

func TestListDayBookingsExcludesCancelled(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	mk := func(start, end string, status string) {
		require.NoError(t, db.Create(&models.Appointment{
			EstablishmentID: est.ID,
			ProfessionalID:  20,
			StartTime:       slot(start),
			EndTime:         slot(end),
			Status:          status,
		}).Error)
	}

	mk("09:00", "09:30", "pendente")
	mk("10:00", "10:30", "confirmado")
	mk("11:00", "11:30", "cancelado")

	booked, err := repo.ListDayBookings(ctx, est.ID, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, booked, 2)
	assert.Equal(t, slot("09:00"), booked[0].Start)
	assert.Equal(t, slot("10:00"), booked[1].Start)

	// fora do intervalo do dia
	booked, err = repo.ListDayBookings(ctx, est.ID, dayStart.AddDate(0, 0, 1), dayStart.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestCreateAppointmentGuardedRejectsOverlap(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	first := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, first, 0, 0))
	require.NotZero(t, first.ID)

	// sobreposição parcial do mesmo profissional
	dup := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:15"),
		EndTime:         slot("09:45"),
		Status:          "pendente",
	}
	err := repo.CreateAppointmentGuarded(ctx, dup, 0, 0)
	rej := domain.AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonSlotTaken, rej.Reason)

	var count int64
	db.Model(&models.Appointment{}).Count(&count)
	assert.EqualValues(t, 1, count, "rejeição não pode persistir nada")

	// adjacente é aceito
	next := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:30"),
		EndTime:         slot("10:00"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, next, 0, 0))
}

func TestCreateAppointmentGuardedBuffer(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	first := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, first, 15*time.Minute, 0))

	// 09:30 cai dentro do buffer (ocupado até 09:45)
	blocked := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:30"),
		EndTime:         slot("10:00"),
		Status:          "pendente",
	}
	err := repo.CreateAppointmentGuarded(ctx, blocked, 15*time.Minute, 0)
	rej := domain.AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonSlotTaken, rej.Reason)

	free := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:45"),
		EndTime:         slot("10:15"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, free, 15*time.Minute, 0))

	// o buffer do candidato também conta: terminar em cima do início do
	// existente (09:00) deixa menos de 15min de descanso
	before := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("08:30"),
		EndTime:         slot("09:00"),
		Status:          "pendente",
	}
	err = repo.CreateAppointmentGuarded(ctx, before, 15*time.Minute, 0)
	rej = domain.AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonSlotTaken, rej.Reason)

	earlier := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("08:15"),
		EndTime:         slot("08:45"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, earlier, 15*time.Minute, 0))
}

func TestCreateAppointmentGuardedMaxConcurrent(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	// dois profissionais diferentes no mesmo horário, limite 2
	for _, prof := range []uint{20, 21} {
		ap := &models.Appointment{
			EstablishmentID: est.ID,
			ProfessionalID:  prof,
			StartTime:       slot("09:00"),
			EndTime:         slot("09:30"),
			Status:          "pendente",
		}
		require.NoError(t, repo.CreateAppointmentGuarded(ctx, ap, 0, 2))
	}

	third := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  22,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "pendente",
	}
	err := repo.CreateAppointmentGuarded(ctx, third, 0, 2)
	rej := domain.AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonLimitReached, rej.Reason)
}

func TestCreateAppointmentGuardedIgnoresCancelled(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "cancelado",
	}).Error)

	ap := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "pendente",
	}
	assert.NoError(t, repo.CreateAppointmentGuarded(ctx, ap, 0, 1))
}

func TestSaveAppointmentGuardedExcludesSelf(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	ap := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, ap, 0, 1))

	other := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("10:00"),
		EndTime:         slot("10:30"),
		Status:          "pendente",
	}
	require.NoError(t, repo.CreateAppointmentGuarded(ctx, other, 0, 1))

	// remarcar para cima de si mesmo (mesmo horário) passa
	require.NoError(t, repo.SaveAppointmentGuarded(ctx, ap, 0, 1))

	// remarcar para cima do outro rejeita
	ap.StartTime = slot("10:15")
	ap.EndTime = slot("10:45")
	err := repo.SaveAppointmentGuarded(ctx, ap, 0, 1)
	rej := domain.AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, domain.ReasonSlotTaken, rej.Reason)
}

func TestGetAppointmentScopedByEstablishment(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	other := &models.Establishment{Name: "Outro", Slug: "outro", Timezone: "UTC"}
	require.NoError(t, db.Create(other).Error)
	ctx := context.Background()

	ap := &models.Appointment{
		EstablishmentID: est.ID,
		ProfessionalID:  20,
		StartTime:       slot("09:00"),
		EndTime:         slot("09:30"),
		Status:          "pendente",
	}
	require.NoError(t, db.Create(ap).Error)

	got, err := repo.GetAppointment(ctx, est.ID, ap.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// outro estabelecimento não enxerga
	got, err = repo.GetAppointment(ctx, other.ID, ap.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListAppointmentsForPeriod(t *testing.T) {
	repo, db := setupTestRepo(t)
	est := seedEstablishment(t, db)
	ctx := context.Background()

	client := &models.Client{EstablishmentID: est.ID, Name: "Maria", Phone: "11999990000"}
	require.NoError(t, db.Create(client).Error)

	mk := func(prof uint, start string) {
		require.NoError(t, db.Create(&models.Appointment{
			EstablishmentID: est.ID,
			ProfessionalID:  prof,
			ClientID:        client.ID,
			StartTime:       slot(start),
			EndTime:         slot(start).Add(30 * time.Minute),
			Status:          "pendente",
		}).Error)
	}
	mk(20, "09:00")
	mk(20, "14:00")
	mk(21, "10:00")

	all, err := repo.ListAppointmentsForPeriod(ctx, est.ID, 0, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Maria", all[0].Client.Name, "client vem pré-carregado")

	one, err := repo.ListAppointmentsForPeriod(ctx, est.ID, 21, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, slot("10:00"), one[0].StartTime)
}
