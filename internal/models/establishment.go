package models

import "time"

type Establishment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	// Código IBGE do município, usado para feriados locais
	Municipality string `gorm:"size:10" json:"municipality"`

	Timezone string `gorm:"size:50" json:"timezone"`
	LogoURL  string `gorm:"size:255" json:"logo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
