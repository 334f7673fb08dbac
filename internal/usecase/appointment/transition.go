package appointment

import (
	"context"
	"time"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
	"github.com/agendaai/agenda-api/internal/timezone"
)

type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute aplica uma transição de estado (confirmar, concluir, falta).
// Cancelamento tem caso de uso próprio por causa da janela do cliente.
// Concluir/falta só depois do fim do horário: a máquina de estados delega
// esse gate temporal ao chamador, e o chamador é aqui.
func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	establishmentID uint,
	appointmentID uint,
	target domain.Status,
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

	if now.IsZero() {
		now = timezone.NowIn(est.Timezone)
	}

	if rej := domain.CanTransition(domain.Status(ap.Status), target, actor); rej != nil {
		return nil, rej
	}

	switch target {
	case domain.StatusConfirmed:
		ap.ConfirmedAt = &now

	case domain.StatusCompleted, domain.StatusNoShow:
		if now.Before(ap.EndTime) {
			return nil, &domain.Rejection{
				Reason:   domain.ReasonInvalidTransition,
				Field:    "end_time",
				Boundary: ap.EndTime.Format("2006-01-02 15:04"),
			}
		}
		if target == domain.StatusCompleted {
			ap.CompletedAt = &now
		} else {
			ap.NoShowAt = &now
		}

	default:
		return nil, &domain.Rejection{Reason: domain.ReasonInvalidTransition, Field: "status"}
	}

	ap.Status = string(target)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		Action:          "appointment_" + string(target),
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}
