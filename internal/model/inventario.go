package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventario tracks stock for one product at one branch. The composite unique
// index guarantees at most one row per (producto, sede) pair; a second create
// fails with a duplicate-key error. Rows are never removed automatically.
//
// StockMinimo / StockMaximo are advisory thresholds: crossing below the
// minimum triggers an alert job, nothing blocks on them.
type Inventario struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_sede"`
	SedeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_sede"`
	StockActual int       `gorm:"not null;default:0"`
	StockMinimo int       `gorm:"not null;default:5"`
	StockMaximo int       `gorm:"not null;default:100"`
	UpdatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Sede     *Sede     `gorm:"foreignKey:SedeID"`
}

// TableName overrides GORM's default pluralization (inventarios → inventario).
func (Inventario) TableName() string { return "inventario" }
