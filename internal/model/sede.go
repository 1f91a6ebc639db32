package model

import (
	"time"

	"github.com/google/uuid"
)

// Sede is a physical branch/store location.
type Sede struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Direccion string    `gorm:"not null"`
	Telefono  *string
	Email     *string
	Ciudad    *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's pluralization (sedes, not sedes→sedes mishaps).
func (Sede) TableName() string { return "sedes" }
