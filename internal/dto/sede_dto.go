package dto

type CrearSedeRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=80"`
	Direccion string  `json:"direccion" validate:"required,min=2,max=200"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Ciudad    *string `json:"ciudad"`
}

type ActualizarSedeRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=80"`
	Direccion *string `json:"direccion" validate:"omitempty,min=2,max=200"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Ciudad    *string `json:"ciudad"`
	Activo    *bool   `json:"activo"`
}

type SedeResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Direccion string  `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Ciudad    *string `json:"ciudad"`
	Activo    bool    `json:"activo"`
}
