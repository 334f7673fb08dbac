package schedule

import (
	"context"
	"strconv"
	"time"

	"github.com/agendaai/agenda-api/internal/models"
)

// ======================================================
// AVAILABILITY ENGINE
// ======================================================

// Engine é a autoridade única de disponibilidade: decide se um horário
// pode ser reservado e valida transições de estado contra a mesma
// política. Sem estado entre chamadas; cada decisão é leitura + cálculo.
type Engine struct {
	repo     Repository
	holidays HolidayCalendar
}

func NewEngine(repo Repository, holidays HolidayCalendar) *Engine {
	return &Engine{repo: repo, holidays: holidays}
}

// ======================================================
// INPUT / OUTPUT
// ======================================================

type EvaluateInput struct {
	Establishment  *models.Establishment
	ProfessionalID uint
	ServiceID      uint

	// Início solicitado, já no timezone do estabelecimento.
	Start time.Time

	// Relógio explícito: permite teste determinístico e decisões
	// reprodutíveis de antecedência.
	Now time.Time

	// Remarcação: agendamento a ignorar em conflito/limite.
	Exclude *uint
}

// Decision é o resultado positivo de Evaluate, com tudo que o chamador
// precisa para persistir o agendamento.
type Decision struct {
	Start time.Time
	End   time.Time

	InitialStatus Status
	Policy        Policy
	Service       *models.Service
	Professional  *models.Professional
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ======================================================
// EVALUATE
// ======================================================

// Evaluate aplica o procedimento de decisão na ordem fixa do contrato:
// validade de serviço/profissional, antecedência mínima, calendário,
// validade do slot, conflito do profissional e limite simultâneo.
// Curto-circuita na primeira falha para motivos determinísticos.
func (e *Engine) Evaluate(ctx context.Context, in EvaluateInput) (*Decision, error) {

	// 1) Serviço ativo e profissional do estabelecimento
	svc, err := e.repo.GetService(ctx, in.Establishment.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.Active {
		return nil, rejectWith(ReasonNotFound, "service", "")
	}

	prof, err := e.repo.GetProfessional(ctx, in.Establishment.ID, in.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if prof == nil || !prof.Active {
		return nil, rejectWith(ReasonNotFound, "professional", "")
	}

	pol, err := e.loadPolicy(ctx, in.Establishment)
	if err != nil {
		return nil, err
	}

	duration := serviceDuration(svc, pol)
	end := in.Start.Add(duration)

	// 2) Antecedência mínima (limite exato ainda é aceito)
	if pol.MinLeadTime > 0 && in.Start.Sub(in.Now) < pol.MinLeadTime {
		return nil, rejectWith(
			ReasonLeadTimeViolation,
			"min_lead_time",
			in.Now.Add(pol.MinLeadTime).Format("2006-01-02 15:04"),
		)
	}

	// 3) Calendário
	plan, open, err := e.resolveDay(pol, prof, in.Establishment, in.Start)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, rejectWith(ReasonClosed, "date", in.Start.Format("2006-01-02"))
	}

	// 4) Validade do slot dentro do expediente
	if !FitsPlan(plan, in.Start, duration) {
		return nil, rejectWith(
			ReasonInvalidSlot,
			"working_hours",
			plan.Open.Format("15:04")+"-"+plan.Close.Format("15:04"),
		)
	}

	bookings, err := e.repo.ListDayBookings(ctx, in.Establishment.ID, plan.Date, plan.Date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	// 5) Conflito do profissional (buffer dos dois lados da janela)
	if HasConflict(byProfessional(bookings, prof.ID), in.Start, end, pol.Buffer, in.Exclude) {
		return nil, rejectWith(ReasonSlotTaken, "inter_service_buffer", pol.Buffer.String())
	}

	// 6) Limite de atendimentos simultâneos (todos os profissionais)
	if pol.MaxConcurrent > 0 && CountAtStart(bookings, in.Start, in.Exclude) >= pol.MaxConcurrent {
		return nil, rejectWith(ReasonLimitReached, "max_concurrent", strconv.Itoa(pol.MaxConcurrent))
	}

	return &Decision{
		Start:         in.Start,
		End:           end,
		InitialStatus: InitialStatus(pol.AutoConfirm),
		Policy:        pol,
		Service:       svc,
		Professional:  prof,
	}, nil
}

// ======================================================
// LISTAGEM DE SLOTS
// ======================================================

// ListSlots gera os horários livres de um dia: saída do gerador de slots
// filtrada por conflito, limite simultâneo e antecedência mínima, para
// que todo slot listado seja aceito se solicitado imediatamente.
func (e *Engine) ListSlots(
	ctx context.Context,
	est *models.Establishment,
	professionalID uint,
	serviceID uint,
	date time.Time,
	now time.Time,
) ([]TimeSlot, error) {

	svc, err := e.repo.GetService(ctx, est.ID, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.Active {
		return nil, rejectWith(ReasonNotFound, "service", "")
	}

	prof, err := e.repo.GetProfessional(ctx, est.ID, professionalID)
	if err != nil {
		return nil, err
	}
	if prof == nil || !prof.Active {
		return nil, rejectWith(ReasonNotFound, "professional", "")
	}

	pol, err := e.loadPolicy(ctx, est)
	if err != nil {
		return nil, err
	}

	plan, open, err := e.resolveDay(pol, prof, est, date)
	if err != nil {
		return nil, err
	}
	if !open {
		return []TimeSlot{}, nil
	}

	bookings, err := e.repo.ListDayBookings(ctx, est.ID, plan.Date, plan.Date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	mine := byProfessional(bookings, prof.ID)

	duration := serviceDuration(svc, pol)
	slots := []TimeSlot{}

	it := NewSlotIterator(plan, duration)
	for {
		start, ok := it.Next()
		if !ok {
			break
		}

		if pol.MinLeadTime > 0 && start.Sub(now) < pol.MinLeadTime {
			continue
		}
		if HasConflict(mine, start, start.Add(duration), pol.Buffer, nil) {
			continue
		}
		if pol.MaxConcurrent > 0 && CountAtStart(bookings, start, nil) >= pol.MaxConcurrent {
			continue
		}

		slots = append(slots, TimeSlot{
			Start: start.Format("15:04"),
			End:   start.Add(duration).Format("15:04"),
		})
	}

	return slots, nil
}

// ======================================================
// PRÉ-CONDIÇÕES DE REMARCAÇÃO / CANCELAMENTO
// ======================================================

// CheckReschedule valida a pré-condição de remarcação: estado não
// terminal e, para o cliente, política permitindo auto-remarcação.
func CheckReschedule(current Status, actor Actor, pol Policy) *Rejection {
	if !current.Active() {
		return rejectWith(ReasonNotReschedulable, "status", string(current))
	}
	if actor == ActorClient && !pol.ReschedulingAllowed {
		return reject(ReasonNotPermitted)
	}
	return nil
}

// CheckCancellation valida a pré-condição de cancelamento. Para o
// cliente, exige a antecedência mínima de cancelamento (limite exato
// ainda é aceito). Independe de Evaluate: dias fechados não impedem
// gestão de agendamentos já existentes.
func CheckCancellation(current Status, actor Actor, pol Policy, start, now time.Time) *Rejection {
	if rej := CanTransition(current, StatusCancelled, actor); rej != nil {
		return rej
	}
	if actor == ActorClient && pol.CancellationLeadTime > 0 && start.Sub(now) < pol.CancellationLeadTime {
		return rejectWith(
			ReasonCancellationWindowClosed,
			"cancellation_lead_time",
			start.Add(-pol.CancellationLeadTime).Format("2006-01-02 15:04"),
		)
	}
	return nil
}

// ======================================================
// HELPERS
// ======================================================

// PolicyFor carrega e faz o parse da política vigente do estabelecimento,
// para chamadores que precisam dela antes de Evaluate (pré-condições de
// remarcação/cancelamento).
func (e *Engine) PolicyFor(ctx context.Context, est *models.Establishment) (Policy, error) {
	return e.loadPolicy(ctx, est)
}

func (e *Engine) loadPolicy(ctx context.Context, est *models.Establishment) (Policy, error) {
	row, err := e.repo.GetOrCreatePolicy(ctx, est.ID)
	if err != nil {
		return Policy{}, err
	}
	loc := time.Local
	if est.Timezone != "" {
		if l, err := time.LoadLocation(est.Timezone); err == nil {
			loc = l
		}
	}
	return PolicyFromModel(row, loc)
}

func (e *Engine) resolveDay(
	pol Policy,
	prof *models.Professional,
	est *models.Establishment,
	date time.Time,
) (DayPlan, bool, error) {

	var hours *ProfessionalHours
	if pol.PerProfessionalHours && prof != nil {
		ph, err := ProfessionalHoursFromModel(prof)
		if err != nil {
			return DayPlan{}, false, err
		}
		hours = &ph
	}

	plan, open := ResolveDay(pol, hours, est.Municipality, date, e.holidays)
	return plan, open, nil
}

func serviceDuration(svc *models.Service, pol Policy) time.Duration {
	if svc.DurationMin > 0 {
		return time.Duration(svc.DurationMin) * time.Minute
	}
	return pol.DefaultServiceDuration
}

func byProfessional(all []Booked, professionalID uint) []Booked {
	var out []Booked
	for _, b := range all {
		if b.ProfessionalID == professionalID {
			out = append(out, b)
		}
	}
	return out
}

