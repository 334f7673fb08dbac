package appointment

import (
	"context"
	"time"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
	"github.com/agendaai/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	EstablishmentID uint
	ProfessionalID  uint
	ServiceID       uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string // YYYY-MM-DD
	Time string // HH:MM

	Notes string

	// Relógio explícito; zero = agora no timezone do estabelecimento.
	Now time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	engine *domain.Engine
	locker SlotLocker
	audit  *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	engine *domain.Engine,
	locker SlotLocker,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		engine: engine,
		locker: locker,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "establishment"}
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(est.Timezone),
	)
	if err != nil {
		return nil, &domain.Rejection{Reason: domain.ReasonInvalidSlot, Field: "date_time"}
	}

	now := in.Now
	if now.IsZero() {
		now = timezone.NowIn(est.Timezone)
	}

	// Serializa contra reservas concorrentes do mesmo profissional/dia.
	release, err := uc.locker.Acquire(ctx, in.ProfessionalID, start)
	if err != nil {
		return nil, err
	}
	defer release()

	decision, err := uc.engine.Evaluate(ctx, domain.EvaluateInput{
		Establishment:  est,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		Start:          start,
		Now:            now,
	})
	if err != nil {
		uc.auditRejection(in, err)
		return nil, err
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.EstablishmentID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		EstablishmentID: in.EstablishmentID,
		ProfessionalID:  in.ProfessionalID,
		ServiceID:       decision.Service.ID,
		ClientID:        client.ID,

		StartTime: decision.Start,
		EndTime:   decision.End,
		Status:    string(decision.InitialStatus),

		// Snapshot de auditoria: capturado aqui, nunca recalculado.
		ServiceName:      decision.Service.Name,
		ProfessionalName: decision.Professional.Name,
		Price:            decision.Service.Price,

		Notes: in.Notes,
	}

	if decision.InitialStatus == domain.StatusConfirmed {
		ap.ConfirmedAt = &now
	}

	if err := uc.repo.CreateAppointmentGuarded(
		ctx,
		ap,
		decision.Policy.Buffer,
		decision.Policy.MaxConcurrent,
	); err != nil {
		uc.auditRejection(in, err)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		Action:          "appointment_created",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}

func (uc *CreateAppointment) auditRejection(in CreateAppointmentInput, err error) {
	rej := domain.AsRejection(err)
	if rej == nil {
		return
	}
	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		Action:          "appointment_rejected",
		Entity:          "appointment",
		Metadata: map[string]any{
			"reason":          string(rej.Reason),
			"professional_id": in.ProfessionalID,
			"date":            in.Date,
			"time":            in.Time,
		},
	})
}
