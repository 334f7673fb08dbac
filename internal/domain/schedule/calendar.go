package schedule

import "time"

// ===============================
// Resolução de calendário
// ===============================

// DayPlan é o expediente efetivo de um dia aberto.
type DayPlan struct {
	Date  time.Time // meia-noite local
	Open  time.Time
	Close time.Time
	Break *TimeRange // pausa do estabelecimento; não há pausa individual
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ResolveDay decide se o dia está aberto e qual o expediente efetivo.
// prof só é considerado quando a política ativa horários por profissional.
// Função pura: todo I/O de feriado passa pelo colaborador.
func ResolveDay(
	pol Policy,
	prof *ProfessionalHours,
	municipality string,
	date time.Time,
	holidays HolidayCalendar,
) (DayPlan, bool) {

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	workDays := pol.WorkDays
	if pol.PerProfessionalHours && prof != nil && prof.WorkDays != nil {
		workDays = *prof.WorkDays
	}
	if !workDays[day.Weekday()] {
		return DayPlan{}, false
	}

	for _, blocked := range pol.BlockedDates {
		if sameDate(blocked, day) {
			return DayPlan{}, false
		}
	}

	if pol.CloseOnNationalHolidays && holidays.IsNationalHoliday(day) {
		return DayPlan{}, false
	}
	if pol.CloseOnLocalHolidays && holidays.IsLocalHoliday(municipality, day) {
		return DayPlan{}, false
	}

	for _, h := range pol.CustomHolidays {
		if h.Matches(day) {
			return DayPlan{}, false
		}
	}

	open, close := pol.Open, pol.Close
	if pol.PerProfessionalHours && prof != nil && prof.Entry != nil && prof.Exit != nil {
		open, close = *prof.Entry, *prof.Exit
	}

	plan := DayPlan{
		Date:  day,
		Open:  open.At(day),
		Close: close.At(day),
	}
	if pol.Break != nil {
		plan.Break = &TimeRange{
			Start: pol.Break.Start.At(day),
			End:   pol.Break.End.At(day),
		}
	}

	return plan, true
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
