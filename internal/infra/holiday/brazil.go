package holiday

import "time"

// ======================================================
// Calendário de feriados brasileiros
// ======================================================

// BrazilCalendar implementa o colaborador de feriados da engine para o
// Brasil: feriados nacionais fixos, os móveis derivados da Páscoa e uma
// tabela de feriados municipais por código IBGE.
type BrazilCalendar struct {
	municipal map[string][]monthDay
}

type monthDay struct {
	Month time.Month
	Day   int
}

func NewBrazilCalendar() *BrazilCalendar {
	return &BrazilCalendar{municipal: municipalSeed()}
}

// feriados nacionais de data fixa
var nationalFixed = []monthDay{
	{time.January, 1},   // Confraternização Universal
	{time.April, 21},    // Tiradentes
	{time.May, 1},       // Dia do Trabalho
	{time.September, 7}, // Independência
	{time.October, 12},  // Nossa Senhora Aparecida
	{time.November, 2},  // Finados
	{time.November, 15}, // Proclamação da República
	{time.December, 25}, // Natal
}

func (c *BrazilCalendar) IsNationalHoliday(date time.Time) bool {
	for _, f := range nationalFixed {
		if date.Month() == f.Month && date.Day() == f.Day {
			return true
		}
	}

	easter := easterSunday(date.Year(), date.Location())
	for _, offset := range []int{
		-48, // Carnaval (segunda)
		-47, // Carnaval (terça)
		-2,  // Sexta-feira Santa
		60,  // Corpus Christi
	} {
		if sameDate(date, easter.AddDate(0, 0, offset)) {
			return true
		}
	}

	return false
}

func (c *BrazilCalendar) IsLocalHoliday(municipality string, date time.Time) bool {
	for _, f := range c.municipal[municipality] {
		if date.Month() == f.Month && date.Day() == f.Day {
			return true
		}
	}
	return false
}

// AddMunicipalHoliday registra um feriado municipal recorrente.
func (c *BrazilCalendar) AddMunicipalHoliday(municipality string, month time.Month, day int) {
	c.municipal[municipality] = append(c.municipal[municipality], monthDay{Month: month, Day: day})
}

// easterSunday calcula o domingo de Páscoa pelo algoritmo de
// Gauss/Meeus (calendário gregoriano).
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// municipalSeed cobre as capitais mais comuns; estabelecimentos em outros
// municípios registram os seus via AddMunicipalHoliday.
func municipalSeed() map[string][]monthDay {
	return map[string][]monthDay{
		"3550308": { // São Paulo
			{time.January, 25}, // Aniversário da cidade
		},
		"3304557": { // Rio de Janeiro
			{time.January, 20}, // São Sebastião
		},
		"3106200": { // Belo Horizonte
			{time.August, 15}, // Assunção de Nossa Senhora
		},
	}
}
