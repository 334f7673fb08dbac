package appointment

import (
	"context"
	"time"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/timezone"
)

type AvailabilityInput struct {
	EstablishmentID uint
	ProfessionalID  uint
	ServiceID       uint
	Date            string // YYYY-MM-DD
	Now             time.Time
}

type GetAvailability struct {
	repo   domain.Repository
	engine *domain.Engine
}

func NewGetAvailability(repo domain.Repository, engine *domain.Engine) *GetAvailability {
	return &GetAvailability{repo: repo, engine: engine}
}

// Execute lista os horários livres do dia para um profissional/serviço.
// Dia fechado devolve lista vazia, não erro.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.TimeSlot, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, &domain.Rejection{Reason: domain.ReasonNotFound, Field: "establishment"}
	}

	loc := timezone.Location(est.Timezone)
	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, &domain.Rejection{Reason: domain.ReasonInvalidSlot, Field: "date"}
	}

	now := in.Now
	if now.IsZero() {
		now = timezone.NowIn(est.Timezone)
	}

	return uc.engine.ListSlots(ctx, est, in.ProfessionalID, in.ServiceID, date, now)
}
