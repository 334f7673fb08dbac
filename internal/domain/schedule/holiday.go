package schedule

import "time"

// HolidayCalendar é o colaborador externo de feriados. Implementações
// devem ser puras por data; o chamador pode cachear por (data, município).
type HolidayCalendar interface {
	IsNationalHoliday(date time.Time) bool
	IsLocalHoliday(municipality string, date time.Time) bool
}
