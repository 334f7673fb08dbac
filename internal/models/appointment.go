package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EstablishmentID uint          `json:"establishment_id"`
	Establishment   Establishment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"establishment"`

	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time `json:"start_time"`
	// Sempre derivado de StartTime + duração do serviço no momento da
	// criação/remarcação, nunca gravado de forma independente.
	EndTime time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pendente'" json:"status"`

	// Snapshot capturado na criação; só muda por remarcação/edição explícita,
	// nunca quando o serviço ou profissional de origem é alterado.
	ServiceName      string  `gorm:"size:100" json:"service_name"`
	ProfessionalName string  `gorm:"size:100" json:"professional_name"`
	Price            float64 `json:"price"`

	Notes string `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	NoShowAt    *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
