package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Estabelecimento
// --------------------------------------------------

func (r *ScheduleGormRepository) GetEstablishmentByID(
	ctx context.Context,
	id uint,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).First(&est, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &est, nil
}

func (r *ScheduleGormRepository) GetEstablishmentBySlug(
	ctx context.Context,
	slug string,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&est).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &est, nil
}

// --------------------------------------------------
// Política (upsert no primeiro acesso)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreatePolicy(
	ctx context.Context,
	establishmentID uint,
) (*models.SchedulePolicy, error) {

	var pol models.SchedulePolicy
	err := r.db.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		First(&pol).Error

	if err == nil {
		return &pol, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pol = DefaultPolicy(establishmentID)
	if err := r.db.WithContext(ctx).Create(&pol).Error; err != nil {
		return nil, err
	}
	return &pol, nil
}

// DefaultPolicy é a configuração semeada no primeiro acesso:
// segunda a sexta, 08:00-18:00, sem pausa, confirmação manual.
func DefaultPolicy(establishmentID uint) models.SchedulePolicy {
	return models.SchedulePolicy{
		EstablishmentID:           establishmentID,
		WorkPattern:               "mon_fri",
		WorkDays:                  "1,2,3,4,5",
		OpenTime:                  "08:00",
		CloseTime:                 "18:00",
		DefaultServiceDurationMin: 30,
		MaxConcurrent:             1,
		ReschedulingAllowed:       true,
	}
}

// --------------------------------------------------
// Serviço / Profissional
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	establishmentID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", serviceID, establishmentID).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &svc, nil
}

func (r *ScheduleGormRepository) GetProfessional(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
) (*models.Professional, error) {

	var prof models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", professionalID, establishmentID).
		First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prof, nil
}

// --------------------------------------------------
// Cliente
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	establishmentID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("establishment_id = ? AND phone = ?", establishmentID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		EstablishmentID: establishmentID,
		Name:            name,
		Phone:           phone,
		Email:           email,
	}
	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Ocupação
// --------------------------------------------------

func (r *ScheduleGormRepository) ListDayBookings(
	ctx context.Context,
	establishmentID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]domain.Booked, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "professional_id", "start_time", "end_time").
		Where(
			"establishment_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			establishmentID, string(domain.StatusCancelled), dayStart, dayEnd,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	booked := make([]domain.Booked, 0, len(rows))
	for _, ap := range rows {
		booked = append(booked, domain.Booked{
			ID:             ap.ID,
			ProfessionalID: ap.ProfessionalID,
			Start:          ap.StartTime,
			End:            ap.EndTime,
		})
	}
	return booked, nil
}

// --------------------------------------------------
// Escrita guardada (check-then-insert atômico)
// --------------------------------------------------

// CreateAppointmentGuarded refaz conflito e limite simultâneo com lock de
// linha (FOR UPDATE) na mesma transação do insert, para que duas
// reservas concorrentes não passem ambas pela checagem.
func (r *ScheduleGormRepository) CreateAppointmentGuarded(
	ctx context.Context,
	ap *models.Appointment,
	buffer time.Duration,
	maxConcurrent int,
) error {
	return r.guardedWrite(ctx, ap, buffer, maxConcurrent, false)
}

func (r *ScheduleGormRepository) SaveAppointmentGuarded(
	ctx context.Context,
	ap *models.Appointment,
	buffer time.Duration,
	maxConcurrent int,
) error {
	return r.guardedWrite(ctx, ap, buffer, maxConcurrent, true)
}

func (r *ScheduleGormRepository) guardedWrite(
	ctx context.Context,
	ap *models.Appointment,
	buffer time.Duration,
	maxConcurrent int,
	excludeSelf bool,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		q := tx
		// SQLite (testes) não aceita FOR UPDATE; lá a transação já serializa.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		// Janela estendida pelo buffer nos dois sentidos, espelhando HasConflict.
		q = q.
			Select("id", "professional_id", "start_time", "end_time").
			Where(
				"establishment_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				ap.EstablishmentID, string(domain.StatusCancelled),
				ap.EndTime.Add(buffer), ap.StartTime.Add(-buffer),
			)
		if excludeSelf {
			q = q.Where("id <> ?", ap.ID)
		}

		var rows []models.Appointment
		if err := q.Find(&rows).Error; err != nil {
			return err
		}

		booked := make([]domain.Booked, 0, len(rows))
		for _, row := range rows {
			booked = append(booked, domain.Booked{
				ID:             row.ID,
				ProfessionalID: row.ProfessionalID,
				Start:          row.StartTime,
				End:            row.EndTime,
			})
		}

		mine := make([]domain.Booked, 0, len(booked))
		for _, b := range booked {
			if b.ProfessionalID == ap.ProfessionalID {
				mine = append(mine, b)
			}
		}
		if domain.HasConflict(mine, ap.StartTime, ap.EndTime, buffer, nil) {
			return &domain.Rejection{Reason: domain.ReasonSlotTaken}
		}

		if maxConcurrent > 0 && domain.CountAtStart(booked, ap.StartTime, nil) >= maxConcurrent {
			return &domain.Rejection{Reason: domain.ReasonLimitReached}
		}

		if excludeSelf {
			return tx.Save(ap).Error
		}
		return tx.Create(ap).Error
	})
}

// --------------------------------------------------
// Agendamento (leitura / mutação de estado)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	establishmentID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", appointmentID, establishmentID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Professional").
		Where(
			"establishment_id = ? AND start_time >= ? AND start_time < ?",
			establishmentID, start, end,
		)
	if professionalID != 0 {
		q = q.Where("professional_id = ?", professionalID)
	}

	var aps []models.Appointment
	if err := q.Order("start_time ASC").Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
