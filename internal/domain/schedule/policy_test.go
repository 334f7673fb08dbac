package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaai/agenda-api/internal/models"
)

func basePolicyModel() *models.SchedulePolicy {
	return &models.SchedulePolicy{
		WorkPattern:               "mon_fri",
		OpenTime:                  "08:00",
		CloseTime:                 "18:00",
		DefaultServiceDurationMin: 30,
		MaxConcurrentEnabled:      true,
		MaxConcurrent:             1,
		ReschedulingAllowed:       true,
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:15")
	require.NoError(t, err)
	assert.Equal(t, MinuteOfDay(9*60+15), m)
	assert.Equal(t, "09:15", m.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	_, err = ParseClock("9h30")
	assert.Error(t, err)
}

func TestPolicyFromModelDefaults(t *testing.T) {
	pol, err := PolicyFromModel(basePolicyModel(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, MinuteOfDay(8*60), pol.Open)
	assert.Equal(t, MinuteOfDay(18*60), pol.Close)
	assert.Nil(t, pol.Break)
	assert.Equal(t, 30*time.Minute, pol.DefaultServiceDuration)
	assert.Equal(t, 1, pol.MaxConcurrent)
	assert.True(t, pol.ReschedulingAllowed)

	// seg-sex
	assert.False(t, pol.WorkDays[time.Sunday])
	assert.True(t, pol.WorkDays[time.Monday])
	assert.True(t, pol.WorkDays[time.Friday])
	assert.False(t, pol.WorkDays[time.Saturday])
}

func TestPolicyFromModelFoldsEnableFlags(t *testing.T) {
	m := basePolicyModel()

	// flags desligados: horas configuradas não valem
	m.MinLeadTimeHours = 24
	m.BufferMin = 15
	m.CancellationLeadTimeHours = 2
	m.MaxConcurrentEnabled = false

	pol, err := PolicyFromModel(m, time.UTC)
	require.NoError(t, err)

	assert.Zero(t, pol.MinLeadTime)
	assert.Zero(t, pol.Buffer)
	assert.Zero(t, pol.CancellationLeadTime)
	assert.Zero(t, pol.MaxConcurrent)

	m.MinLeadTimeEnabled = true
	m.BufferEnabled = true
	m.CancellationLeadTimeEnabled = true
	m.MaxConcurrentEnabled = true
	m.MaxConcurrent = 3

	pol, err = PolicyFromModel(m, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, pol.MinLeadTime)
	assert.Equal(t, 15*time.Minute, pol.Buffer)
	assert.Equal(t, 2*time.Hour, pol.CancellationLeadTime)
	assert.Equal(t, 3, pol.MaxConcurrent)
}

func TestPolicyFromModelInvalid(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*models.SchedulePolicy)
	}{
		{
			name:  "abertura depois do fechamento",
			tweak: func(m *models.SchedulePolicy) { m.OpenTime = "18:00"; m.CloseTime = "08:00" },
		},
		{
			name:  "abertura igual ao fechamento",
			tweak: func(m *models.SchedulePolicy) { m.OpenTime = "08:00"; m.CloseTime = "08:00" },
		},
		{
			name: "pausa fora do expediente",
			tweak: func(m *models.SchedulePolicy) {
				m.HasBreak = true
				m.BreakStart = "07:00"
				m.BreakEnd = "09:00"
			},
		},
		{
			name: "pausa invertida",
			tweak: func(m *models.SchedulePolicy) {
				m.HasBreak = true
				m.BreakStart = "13:00"
				m.BreakEnd = "12:00"
			},
		},
		{
			name:  "padrão custom sem dias",
			tweak: func(m *models.SchedulePolicy) { m.WorkPattern = "custom"; m.WorkDays = "" },
		},
		{
			name:  "dia de trabalho fora de 0..6",
			tweak: func(m *models.SchedulePolicy) { m.WorkPattern = "custom"; m.WorkDays = "1,9" },
		},
		{
			name:  "feriado customizado ilegível",
			tweak: func(m *models.SchedulePolicy) { m.CustomHolidays = "natal" },
		},
		{
			name:  "data bloqueada ilegível",
			tweak: func(m *models.SchedulePolicy) { m.BlockedDates = "31/12/2026" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := basePolicyModel()
			tt.tweak(m)
			_, err := PolicyFromModel(m, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestPolicyFromModelBreakIgnoredWhenDisabled(t *testing.T) {
	m := basePolicyModel()
	m.HasBreak = false
	m.BreakStart = "12:00"
	m.BreakEnd = "13:00"

	pol, err := PolicyFromModel(m, time.UTC)
	require.NoError(t, err)
	assert.Nil(t, pol.Break)
}

func TestParseHolidayDate(t *testing.T) {
	h, err := ParseHolidayDate("12-25")
	require.NoError(t, err)
	assert.True(t, h.Recurring())
	assert.True(t, h.Matches(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, h.Matches(time.Date(2030, 12, 25, 0, 0, 0, 0, time.UTC)))

	h, err = ParseHolidayDate("2026-06-12")
	require.NoError(t, err)
	assert.False(t, h.Recurring())
	assert.True(t, h.Matches(time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)))
	assert.False(t, h.Matches(time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)))

	_, err = ParseHolidayDate("dezembro")
	assert.Error(t, err)
}

func TestWorkPatterns(t *testing.T) {
	tests := []struct {
		pattern  string
		saturday bool
		sunday   bool
	}{
		{"mon_fri", false, false},
		{"mon_sat", true, false},
		{"mon_sun", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			m := basePolicyModel()
			m.WorkPattern = tt.pattern

			pol, err := PolicyFromModel(m, time.UTC)
			require.NoError(t, err)

			assert.True(t, pol.WorkDays[time.Wednesday])
			assert.Equal(t, tt.saturday, pol.WorkDays[time.Saturday])
			assert.Equal(t, tt.sunday, pol.WorkDays[time.Sunday])
		})
	}
}

func TestProfessionalHoursFromModel(t *testing.T) {
	ph, err := ProfessionalHoursFromModel(&models.Professional{})
	require.NoError(t, err)
	assert.Nil(t, ph.WorkDays)
	assert.Nil(t, ph.Entry)

	ph, err = ProfessionalHoursFromModel(&models.Professional{
		EntryTime: "10:00",
		ExitTime:  "16:00",
		WorkDays:  "2,4",
	})
	require.NoError(t, err)
	require.NotNil(t, ph.Entry)
	assert.Equal(t, MinuteOfDay(10*60), *ph.Entry)
	assert.Equal(t, MinuteOfDay(16*60), *ph.Exit)
	require.NotNil(t, ph.WorkDays)
	assert.True(t, ph.WorkDays[time.Tuesday])
	assert.False(t, ph.WorkDays[time.Monday])

	_, err = ProfessionalHoursFromModel(&models.Professional{
		EntryTime: "16:00",
		ExitTime:  "10:00",
	})
	assert.Error(t, err)
}
