package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer. DNI is the national identity number; unique when set
// so a duplicate surfaces as a conflict at the store level.
type Cliente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"not null"`
	Apellido        *string
	Email           *string
	Telefono        *string
	DNI             *string `gorm:"column:dni;uniqueIndex"`
	Direccion       *string
	FechaNacimiento *time.Time
	CreatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (Cliente) TableName() string { return "clientes" }
