package appointment

import (
	"context"
	"time"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
	"github.com/agendaai/agenda-api/internal/timezone"
)

type CancelAppointment struct {
	repo   domain.Repository
	engine *domain.Engine
	audit  *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	engine *domain.Engine,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		engine: engine,
		audit:  audit,
	}
}

// Execute cancela um agendamento. Para o cliente vale a janela mínima de
// cancelamento da política; o estabelecimento cancela a qualquer momento.
// Dia bloqueado/feriado não impede cancelamento de agendamento existente.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	establishmentID uint,
	appointmentID uint,
	actor domain.Actor,
	now time.Time,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "establishment"}
	}

	ap, err := uc.repo.GetAppointment(ctx, establishmentID, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "appointment"}
	}

	pol, err := uc.engine.PolicyFor(ctx, est)
	if err != nil {
		return nil, err
	}

	if now.IsZero() {
		now = timezone.NowIn(est.Timezone)
	}

	if rej := domain.CheckCancellation(domain.Status(ap.Status), actor, pol, ap.StartTime, now); rej != nil {
		return nil, rej
	}

	ap.Status = string(domain.StatusCancelled)
	ap.CancelledAt = &now

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		Action:          "appointment_cancelled",
		Entity:          "appointment",
		EntityID:        &ap.ID,
		Metadata:        map[string]any{"actor": string(actor)},
	})

	return ap, nil
}
