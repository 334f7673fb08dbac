package schedule

import "time"

// ===============================
// Índice de ocupação
// ===============================

// Booked é um agendamento não-cancelado já persistido, visto pelo índice.
type Booked struct {
	ID             uint
	ProfessionalID uint
	Start          time.Time
	End            time.Time
}

// Overlaps testa interseção de intervalos meio-abertos [aStart, aEnd) e
// [bStart, bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict é verdadeiro se o candidato, estendido pelo buffer
// pós-atendimento, intersecta algum agendamento existente também estendido.
// O buffer vale nos dois sentidos: nem o candidato invade o descanso de um
// agendamento anterior, nem termina perto demais do próximo.
// exclude ignora o agendamento sendo remarcado.
func HasConflict(existing []Booked, start, end time.Time, buffer time.Duration, exclude *uint) bool {
	for _, b := range existing {
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if Overlaps(start, end.Add(buffer), b.Start, b.End.Add(buffer)) {
			return true
		}
	}
	return false
}

// CountAtStart conta agendamentos (de qualquer profissional) começando
// exatamente em start, para o limite de atendimentos simultâneos.
func CountAtStart(existing []Booked, start time.Time, exclude *uint) int {
	n := 0
	for _, b := range existing {
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if b.Start.Equal(start) {
			n++
		}
	}
	return n
}
