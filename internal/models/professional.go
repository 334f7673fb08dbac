package models

import "time"

type Professional struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	EstablishmentID uint          `json:"establishment_id"`
	Establishment   Establishment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"establishment"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`

	// Horário individual (usado somente quando a política do estabelecimento
	// ativa horários por profissional). Vazio = herda do estabelecimento.
	EntryTime string `gorm:"size:5" json:"entry_time"` // HH:MM
	ExitTime  string `gorm:"size:5" json:"exit_time"`  // HH:MM
	WorkDays  string `gorm:"size:20" json:"work_days"` // ex: "1,2,3,4,5" (0=domingo)

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
