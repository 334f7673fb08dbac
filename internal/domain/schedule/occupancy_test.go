package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hhmm string) time.Time {
	m, _ := ParseClock(hhmm)
	return m.At(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
}

func TestOverlapsHalfOpen(t *testing.T) {
	// [09:00,09:30) e [09:30,10:00) são adjacentes, não conflitam
	assert.False(t, Overlaps(at("09:00"), at("09:30"), at("09:30"), at("10:00")))
	assert.False(t, Overlaps(at("09:30"), at("10:00"), at("09:00"), at("09:30")))

	assert.True(t, Overlaps(at("09:00"), at("09:30"), at("09:15"), at("09:45")))
	assert.True(t, Overlaps(at("09:00"), at("10:00"), at("09:15"), at("09:30")), "contido")
	assert.True(t, Overlaps(at("09:15"), at("09:30"), at("09:00"), at("10:00")), "contém")
}

func TestHasConflict(t *testing.T) {
	existing := []Booked{
		{ID: 1, ProfessionalID: 1, Start: at("09:00"), End: at("09:30")},
	}

	assert.True(t, HasConflict(existing, at("09:15"), at("09:45"), 0, nil))
	assert.False(t, HasConflict(existing, at("09:30"), at("10:00"), 0, nil), "adjacente é livre")
	assert.False(t, HasConflict(existing, at("08:00"), at("09:00"), 0, nil))
}

func TestHasConflictBufferBothSides(t *testing.T) {
	existing := []Booked{
		{ID: 1, ProfessionalID: 1, Start: at("09:00"), End: at("09:30")},
	}

	// buffer de 15min ocupa até 09:45 depois do agendamento existente
	assert.True(t, HasConflict(existing, at("09:30"), at("10:00"), 15*time.Minute, nil))
	assert.True(t, HasConflict(existing, at("09:44"), at("10:14"), 15*time.Minute, nil))
	assert.False(t, HasConflict(existing, at("09:45"), at("10:15"), 15*time.Minute, nil))

	// o buffer do candidato também conta: terminar a menos de 15min do
	// início do existente conflita
	assert.True(t, HasConflict(existing, at("08:30"), at("09:00"), 15*time.Minute, nil))
	assert.True(t, HasConflict(existing, at("08:16"), at("08:46"), 15*time.Minute, nil))
	assert.False(t, HasConflict(existing, at("08:15"), at("08:45"), 15*time.Minute, nil))
}

func TestHasConflictExclude(t *testing.T) {
	existing := []Booked{
		{ID: 7, ProfessionalID: 1, Start: at("09:00"), End: at("09:30")},
		{ID: 8, ProfessionalID: 1, Start: at("10:00"), End: at("10:30")},
	}

	self := uint(7)
	assert.False(t, HasConflict(existing, at("09:00"), at("09:30"), 0, &self),
		"remarcação ignora o próprio agendamento")
	assert.True(t, HasConflict(existing, at("10:15"), at("10:45"), 0, &self))
}

func TestCountAtStart(t *testing.T) {
	existing := []Booked{
		{ID: 1, ProfessionalID: 1, Start: at("09:00"), End: at("09:30")},
		{ID: 2, ProfessionalID: 2, Start: at("09:00"), End: at("10:00")},
		{ID: 3, ProfessionalID: 3, Start: at("09:30"), End: at("10:00")},
	}

	assert.Equal(t, 2, CountAtStart(existing, at("09:00"), nil))
	assert.Equal(t, 1, CountAtStart(existing, at("09:30"), nil))
	assert.Equal(t, 0, CountAtStart(existing, at("09:15"), nil))

	self := uint(2)
	assert.Equal(t, 1, CountAtStart(existing, at("09:00"), &self))
}
