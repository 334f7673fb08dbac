package appointment

import (
	"context"
	"time"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/models"
	"github.com/agendaai/agenda-api/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	dateStr string,
) ([]models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "establishment"}
	}

	loc := timezone.Location(est.Timezone)
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return nil, &domain.Rejection{Reason: domain.ReasonInvalidSlot, Field: "date"}
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	return uc.repo.ListAppointmentsForPeriod(ctx, establishmentID, professionalID, start, end)
}
