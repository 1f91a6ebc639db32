package service

import "errors"

// Sentinel errors of the business layer. Handlers translate these into HTTP
// statuses; anything else is treated as a persistence problem.
var (
	// Validation — rejected before any persistence attempt.
	ErrCarritoVacio     = errors.New("la venta no tiene productos")
	ErrCantidadInvalida = errors.New("la cantidad debe ser mayor a cero")

	// Permission — blocks the whole operation.
	ErrSinSedeAsignada = errors.New("el usuario no tiene una sede asignada")

	// Conflict — surfaced verbatim to the caller.
	ErrInventarioDuplicado = errors.New("ya existe un registro de inventario para ese producto y sede")
	ErrClienteDuplicado    = errors.New("ya existe un cliente con ese DNI")

	// State machine.
	ErrVentaYaCancelada = errors.New("la venta ya está cancelada")

	ErrNoEncontrado = errors.New("registro no encontrado")
)
