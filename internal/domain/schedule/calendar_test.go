package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaai/agenda-api/internal/models"
)

// stubHolidays permite controlar feriados sem depender do calendário real.
type stubHolidays struct {
	national map[string]bool
	local    map[string]bool
}

func (s stubHolidays) IsNationalHoliday(date time.Time) bool {
	return s.national[date.Format("2006-01-02")]
}

func (s stubHolidays) IsLocalHoliday(municipality string, date time.Time) bool {
	return s.local[municipality+"/"+date.Format("2006-01-02")]
}

func mustPolicy(t *testing.T, m *models.SchedulePolicy) Policy {
	t.Helper()
	pol, err := PolicyFromModel(m, time.UTC)
	require.NoError(t, err)
	return pol
}

func TestResolveDayWeekdays(t *testing.T) {
	pol := mustPolicy(t, basePolicyModel()) // seg-sex
	none := stubHolidays{}

	// 2026-03-02 é segunda; 2026-03-07 sábado; 2026-03-08 domingo
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	plan, open := ResolveDay(pol, nil, "", monday, none)
	require.True(t, open)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), plan.Open)
	assert.Equal(t, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), plan.Close)
	assert.Nil(t, plan.Break)

	_, open = ResolveDay(pol, nil, "", saturday, none)
	assert.False(t, open)

	_, open = ResolveDay(pol, nil, "", sunday, none)
	assert.False(t, open)
}

func TestResolveDayBlockedDate(t *testing.T) {
	m := basePolicyModel()
	m.BlockedDates = "2026-03-02,2026-03-04"
	pol := mustPolicy(t, m)

	_, open := ResolveDay(pol, nil, "", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), stubHolidays{})
	assert.False(t, open)

	_, open = ResolveDay(pol, nil, "", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), stubHolidays{})
	assert.True(t, open)
}

func TestResolveDayHolidays(t *testing.T) {
	holidays := stubHolidays{
		national: map[string]bool{"2026-03-02": true},
		local:    map[string]bool{"3550308/2026-03-03": true},
	}

	m := basePolicyModel()
	m.CloseOnNationalHolidays = true
	m.CloseOnLocalHolidays = true
	pol := mustPolicy(t, m)

	_, open := ResolveDay(pol, nil, "3550308", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), holidays)
	assert.False(t, open, "feriado nacional fecha")

	_, open = ResolveDay(pol, nil, "3550308", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), holidays)
	assert.False(t, open, "feriado municipal fecha")

	// outro município não fecha no feriado local alheio
	_, open = ResolveDay(pol, nil, "3304557", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), holidays)
	assert.True(t, open)

	// política sem adesão a feriados segue aberta
	pol2 := mustPolicy(t, basePolicyModel())
	_, open = ResolveDay(pol2, nil, "3550308", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), holidays)
	assert.True(t, open)
}

func TestResolveDayCustomHolidays(t *testing.T) {
	m := basePolicyModel()
	m.CustomHolidays = "03-04,2026-03-05"
	pol := mustPolicy(t, m)

	_, open := ResolveDay(pol, nil, "", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), stubHolidays{})
	assert.False(t, open, "recorrente fecha")

	_, open = ResolveDay(pol, nil, "", time.Date(2027, 3, 4, 0, 0, 0, 0, time.UTC), stubHolidays{})
	assert.False(t, open, "recorrente fecha em qualquer ano")

	_, open = ResolveDay(pol, nil, "", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), stubHolidays{})
	assert.False(t, open, "absoluto fecha no ano")

	_, open = ResolveDay(pol, nil, "", time.Date(2027, 3, 5, 0, 0, 0, 0, time.UTC), stubHolidays{})
	assert.True(t, open, "absoluto não fecha em outro ano")
}

func TestResolveDayPerProfessionalHours(t *testing.T) {
	m := basePolicyModel()
	m.PerProfessionalHours = true
	pol := mustPolicy(t, m)

	entry, _ := ParseClock("10:00")
	exit, _ := ParseClock("16:00")
	days := [7]bool{}
	days[time.Tuesday] = true

	prof := &ProfessionalHours{WorkDays: &days, Entry: &entry, Exit: &exit}

	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	plan, open := ResolveDay(pol, prof, "", tuesday, stubHolidays{})
	require.True(t, open)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), plan.Open)
	assert.Equal(t, time.Date(2026, 3, 3, 16, 0, 0, 0, time.UTC), plan.Close)

	// segunda vale para o estabelecimento, mas não para esse profissional
	_, open = ResolveDay(pol, prof, "", monday, stubHolidays{})
	assert.False(t, open)

	// campos nil herdam do estabelecimento
	partial := &ProfessionalHours{}
	plan, open = ResolveDay(pol, partial, "", monday, stubHolidays{})
	require.True(t, open)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), plan.Open)

	// política sem horários individuais ignora o override
	pol2 := mustPolicy(t, basePolicyModel())
	plan, open = ResolveDay(pol2, prof, "", monday, stubHolidays{})
	require.True(t, open)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), plan.Open)
}

func TestResolveDayBreak(t *testing.T) {
	m := basePolicyModel()
	m.HasBreak = true
	m.BreakStart = "12:00"
	m.BreakEnd = "13:00"
	pol := mustPolicy(t, m)

	plan, open := ResolveDay(pol, nil, "", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), stubHolidays{})
	require.True(t, open)
	require.NotNil(t, plan.Break)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), plan.Break.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), plan.Break.End)
}
