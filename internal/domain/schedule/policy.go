package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agendaai/agenda-api/internal/models"
)

// ===============================
// Tipos de valor
// ===============================

// MinuteOfDay é um horário local em minutos desde a meia-noite.
type MinuteOfDay int

func ParseClock(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("horário inválido %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// At ancora o horário no dia e timezone da data informada.
func (m MinuteOfDay) At(date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		int(m)/60, int(m)%60, 0, 0,
		date.Location(),
	)
}

type ClockRange struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

// HolidayDate é um feriado customizado: recorrente (todo ano, Year == 0)
// ou absoluto (ano específico).
type HolidayDate struct {
	Year  int // 0 = recorrente anual
	Month time.Month
	Day   int
}

func (h HolidayDate) Recurring() bool { return h.Year == 0 }

func (h HolidayDate) Matches(date time.Time) bool {
	if h.Month != date.Month() || h.Day != date.Day() {
		return false
	}
	return h.Recurring() || h.Year == date.Year()
}

// ParseHolidayDate aceita "MM-DD" (recorrente) ou "YYYY-MM-DD" (absoluto).
func ParseHolidayDate(s string) (HolidayDate, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return HolidayDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	}
	if t, err := time.Parse("01-02", s); err == nil {
		return HolidayDate{Month: t.Month(), Day: t.Day()}, nil
	}
	return HolidayDate{}, fmt.Errorf("feriado inválido %q", s)
}

// ===============================
// Política
// ===============================

type WorkPattern string

const (
	WorkPatternMonFri WorkPattern = "mon_fri"
	WorkPatternMonSat WorkPattern = "mon_sat"
	WorkPatternMonSun WorkPattern = "mon_sun"
	WorkPatternCustom WorkPattern = "custom"
)

// Policy é o snapshot imutável da configuração de agenda de um
// estabelecimento. Os flags de habilitação do modelo persistido são
// resolvidos uma única vez no parse: valor zero = regra desativada.
type Policy struct {
	WorkPattern WorkPattern
	WorkDays    [7]bool // índice = time.Weekday (0=domingo)

	Open  MinuteOfDay
	Close MinuteOfDay
	Break *ClockRange

	PerProfessionalHours bool

	CloseOnNationalHolidays bool
	CloseOnLocalHolidays    bool
	CustomHolidays          []HolidayDate
	BlockedDates            []time.Time // meia-noite local

	DefaultServiceDuration time.Duration

	MinLeadTime          time.Duration // 0 = sem antecedência mínima
	MaxConcurrent        int           // 0 = sem limite simultâneo
	AutoConfirm          bool
	Buffer               time.Duration // 0 = sem intervalo entre serviços
	CancellationLeadTime time.Duration // 0 = cancelamento livre
	ReschedulingAllowed  bool
}

// PolicyFromModel converte a linha persistida na política de domínio,
// validando os invariantes (open < close, pausa dentro do expediente).
func PolicyFromModel(m *models.SchedulePolicy, loc *time.Location) (Policy, error) {
	p := Policy{
		WorkPattern:             WorkPattern(m.WorkPattern),
		PerProfessionalHours:    m.PerProfessionalHours,
		CloseOnNationalHolidays: m.CloseOnNationalHolidays,
		CloseOnLocalHolidays:    m.CloseOnLocalHolidays,
		AutoConfirm:             m.AutoConfirm,
		ReschedulingAllowed:     m.ReschedulingAllowed,
	}

	var err error
	if p.Open, err = ParseClock(m.OpenTime); err != nil {
		return Policy{}, err
	}
	if p.Close, err = ParseClock(m.CloseTime); err != nil {
		return Policy{}, err
	}
	if p.Open >= p.Close {
		return Policy{}, fmt.Errorf("expediente inválido: %s >= %s", p.Open, p.Close)
	}

	p.WorkDays, err = parseWorkDays(m.WorkPattern, m.WorkDays)
	if err != nil {
		return Policy{}, err
	}

	if m.HasBreak && m.BreakStart != "" && m.BreakEnd != "" {
		start, err := ParseClock(m.BreakStart)
		if err != nil {
			return Policy{}, err
		}
		end, err := ParseClock(m.BreakEnd)
		if err != nil {
			return Policy{}, err
		}
		if start >= end || start < p.Open || end > p.Close {
			return Policy{}, fmt.Errorf("pausa inválida: %s-%s fora de %s-%s", start, end, p.Open, p.Close)
		}
		p.Break = &ClockRange{Start: start, End: end}
	}

	for _, s := range splitCSV(m.CustomHolidays) {
		h, err := ParseHolidayDate(s)
		if err != nil {
			return Policy{}, err
		}
		p.CustomHolidays = append(p.CustomHolidays, h)
	}

	for _, s := range splitCSV(m.BlockedDates) {
		d, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return Policy{}, fmt.Errorf("data bloqueada inválida %q: %w", s, err)
		}
		p.BlockedDates = append(p.BlockedDates, d)
	}

	dur := m.DefaultServiceDurationMin
	if dur <= 0 {
		dur = 30
	}
	p.DefaultServiceDuration = time.Duration(dur) * time.Minute

	if m.MinLeadTimeEnabled && m.MinLeadTimeHours > 0 {
		p.MinLeadTime = time.Duration(m.MinLeadTimeHours) * time.Hour
	}
	if m.MaxConcurrentEnabled && m.MaxConcurrent > 0 {
		p.MaxConcurrent = m.MaxConcurrent
	}
	if m.BufferEnabled && m.BufferMin > 0 {
		p.Buffer = time.Duration(m.BufferMin) * time.Minute
	}
	if m.CancellationLeadTimeEnabled && m.CancellationLeadTimeHours > 0 {
		p.CancellationLeadTime = time.Duration(m.CancellationLeadTimeHours) * time.Hour
	}

	return p, nil
}

func parseWorkDays(pattern, csv string) ([7]bool, error) {
	var days [7]bool

	switch WorkPattern(pattern) {
	case WorkPatternMonFri:
		for d := time.Monday; d <= time.Friday; d++ {
			days[d] = true
		}
		return days, nil
	case WorkPatternMonSat:
		for d := time.Monday; d <= time.Saturday; d++ {
			days[d] = true
		}
		return days, nil
	case WorkPatternMonSun:
		for d := range days {
			days[d] = true
		}
		return days, nil
	}

	// custom (ou padrão desconhecido): usa a lista explícita
	any := false
	for _, s := range splitCSV(csv) {
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 || d > 6 {
			return days, fmt.Errorf("dia de trabalho inválido %q", s)
		}
		days[d] = true
		any = true
	}
	if !any {
		return days, fmt.Errorf("nenhum dia de trabalho configurado")
	}
	return days, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ===============================
// Horário individual do profissional
// ===============================

// ProfessionalHours é o horário próprio de um profissional, usado somente
// quando a política ativa horários por profissional. Campos nil herdam do
// estabelecimento.
type ProfessionalHours struct {
	WorkDays *[7]bool
	Entry    *MinuteOfDay
	Exit     *MinuteOfDay
}

func ProfessionalHoursFromModel(m *models.Professional) (ProfessionalHours, error) {
	var ph ProfessionalHours

	if m.WorkDays != "" {
		days, err := parseWorkDays(string(WorkPatternCustom), m.WorkDays)
		if err != nil {
			return ph, err
		}
		ph.WorkDays = &days
	}

	if m.EntryTime != "" && m.ExitTime != "" {
		entry, err := ParseClock(m.EntryTime)
		if err != nil {
			return ph, err
		}
		exit, err := ParseClock(m.ExitTime)
		if err != nil {
			return ph, err
		}
		if entry >= exit {
			return ph, fmt.Errorf("horário individual inválido: %s >= %s", entry, exit)
		}
		ph.Entry, ph.Exit = &entry, &exit
	}

	return ph, nil
}
