package appointment

import (
	"context"
	"time"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
	"github.com/agendaai/agenda-api/internal/timezone"
)

type RescheduleAppointmentInput struct {
	EstablishmentID uint
	AppointmentID   uint

	Date string // YYYY-MM-DD
	Time string // HH:MM

	Actor domain.Actor
	Now   time.Time
}

type RescheduleAppointment struct {
	repo   domain.Repository
	engine *domain.Engine
	locker SlotLocker
	audit  *audit.Dispatcher
}

func NewRescheduleAppointment(
	repo domain.Repository,
	engine *domain.Engine,
	locker SlotLocker,
	audit *audit.Dispatcher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		engine: engine,
		locker: locker,
		audit:  audit,
	}
}

// Execute remarca um agendamento: mesma avaliação de uma reserva nova,
// ignorando o próprio agendamento em conflito e limite.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "establishment"}
	}

	ap, err := uc.repo.GetAppointment(ctx, in.EstablishmentID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "appointment"}
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

	// Pré-condição antes de qualquer avaliação de disponibilidade: um
	// agendamento terminal nunca chega a disputar horário.
	pol, err := uc.engine.PolicyFor(ctx, est)
	if err != nil {
		return nil, err
	}
	if rej := domain.CheckReschedule(domain.Status(ap.Status), in.Actor, pol); rej != nil {
		return nil, rej
	}

	release, err := uc.locker.Acquire(ctx, ap.ProfessionalID, start)
	if err != nil {
		return nil, err
	}
	defer release()

	decision, err := uc.engine.Evaluate(ctx, domain.EvaluateInput{
		Establishment:  est,
		ProfessionalID: ap.ProfessionalID,
		ServiceID:      ap.ServiceID,
		Start:          start,
		Now:            now,
		Exclude:        &ap.ID,
	})
	if err != nil {
		return nil, err
	}

	ap.StartTime = decision.Start
	ap.EndTime = decision.End

	if err := uc.repo.SaveAppointmentGuarded(
		ctx,
		ap,
		decision.Policy.Buffer,
		decision.Policy.MaxConcurrent,
	); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		Action:          "appointment_rescheduled",
		Entity:          "appointment",
		EntityID:        &ap.ID,
		Metadata: map[string]any{
			"date": in.Date,
			"time": in.Time,
		},
	})

	return ap, nil
}
