package models

import "time"

// SchedulePolicy é a configuração de agenda do estabelecimento (singleton,
// criada com defaults no primeiro acesso). Horas em "HH:MM", datas em
// "YYYY-MM-DD"; listas são CSV desses primitivos.
type SchedulePolicy struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"uniqueIndex" json:"establishment_id"`

	WorkPattern string `gorm:"size:20;default:'mon_fri'" json:"work_pattern"` // mon_fri | mon_sat | mon_sun | custom
	WorkDays    string `gorm:"size:20" json:"work_days"`                      // ex: "1,2,3,4,5" (0=domingo)

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`

	HasBreak   bool   `json:"has_break"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`

	PerProfessionalHours bool `json:"per_professional_hours"`

	CloseOnNationalHolidays bool `json:"close_on_national_holidays"`
	CloseOnLocalHolidays    bool `json:"close_on_local_holidays"`

	CustomHolidays string `gorm:"type:text" json:"custom_holidays"` // "MM-DD" (anual) ou "YYYY-MM-DD"
	BlockedDates   string `gorm:"type:text" json:"blocked_dates"`   // "YYYY-MM-DD"

	DefaultServiceDurationMin int `gorm:"default:30" json:"default_service_duration_min"`

	MinLeadTimeEnabled bool `json:"min_lead_time_enabled"`
	MinLeadTimeHours   int  `json:"min_lead_time_hours"`

	MaxConcurrentEnabled bool `json:"max_concurrent_enabled"`
	MaxConcurrent        int  `gorm:"default:1" json:"max_concurrent"`

	AutoConfirm bool `json:"auto_confirm"`

	BufferEnabled bool `json:"buffer_enabled"`
	BufferMin     int  `json:"buffer_min"`

	CancellationLeadTimeEnabled bool `json:"cancellation_lead_time_enabled"`
	CancellationLeadTimeHours   int  `json:"cancellation_lead_time_hours"`

	ReschedulingAllowed bool `gorm:"default:true" json:"rescheduling_allowed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
