package model

import (
	"time"

	"github.com/google/uuid"
)

// Perfil stores system users with role-based access.
// Rol: "admin" | "gerente" | "vendedor"
// SedeID is the branch the user works at; a vendedor without one cannot
// register sales (business rule enforced by the venta service).
type Perfil struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       *string
	Apellido     *string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	SedeID       *uuid.UUID `gorm:"type:uuid;index"`
	AvatarURL    *string
	Activo       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sede *Sede `gorm:"foreignKey:SedeID"`
}

// TableName overrides GORM's default pluralization (perfils → perfiles).
func (Perfil) TableName() string { return "perfiles" }
