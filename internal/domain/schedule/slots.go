package schedule

import "time"

// ===============================
// Geração de slots
// ===============================

// SlotIterator produz os horários candidatos de um dia, começando na
// abertura e avançando pela duração do serviço (não por grade fixa).
// É finito e reiniciável: recomputação pura, sem estado escondido, para
// que quem precisa só dos primeiros N slots não materialize o dia inteiro.
type SlotIterator struct {
	plan DayPlan
	dur  time.Duration
	cur  time.Time
}

func NewSlotIterator(plan DayPlan, duration time.Duration) *SlotIterator {
	return &SlotIterator{plan: plan, dur: duration, cur: plan.Open}
}

// Next devolve o próximo candidato que cabe no expediente e não cruza a
// pausa. Candidatos que cruzam a pausa são pulados, mas a cadência
// continua ancorada na abertura.
func (it *SlotIterator) Next() (time.Time, bool) {
	for {
		start := it.cur
		end := start.Add(it.dur)

		if end.After(it.plan.Close) {
			return time.Time{}, false
		}

		it.cur = it.cur.Add(it.dur)

		if crossesBreak(it.plan, start, end) {
			continue
		}
		return start, true
	}
}

func (it *SlotIterator) Reset() {
	it.cur = it.plan.Open
}

// Slots materializa a sequência completa do dia.
func Slots(plan DayPlan, duration time.Duration) []time.Time {
	var out []time.Time
	it := NewSlotIterator(plan, duration)
	for {
		s, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

// FitsPlan valida um horário avulso contra o expediente: dentro da
// janela aberta, sem cruzar a pausa e sem ultrapassar o fechamento.
func FitsPlan(plan DayPlan, start time.Time, duration time.Duration) bool {
	end := start.Add(duration)

	if start.Before(plan.Open) || end.After(plan.Close) {
		return false
	}
	return !crossesBreak(plan, start, end)
}

func crossesBreak(plan DayPlan, start, end time.Time) bool {
	if plan.Break == nil {
		return false
	}
	return start.Before(plan.Break.End) && end.After(plan.Break.Start)
}
