package dto

type CrearClienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=2,max=80"`
	Apellido        *string `json:"apellido"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Telefono        *string `json:"telefono"`
	DNI             *string `json:"dni"              validate:"omitempty,min=6,max=15"`
	Direccion       *string `json:"direccion"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarClienteRequest struct {
	Nombre          *string `json:"nombre"           validate:"omitempty,min=2,max=80"`
	Apellido        *string `json:"apellido"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Telefono        *string `json:"telefono"`
	DNI             *string `json:"dni"              validate:"omitempty,min=6,max=15"`
	Direccion       *string `json:"direccion"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ClienteResponse struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	Apellido        *string `json:"apellido"`
	Email           *string `json:"email"`
	Telefono        *string `json:"telefono"`
	DNI             *string `json:"dni"`
	Direccion       *string `json:"direccion"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	CreatedAt       string  `json:"created_at"`
}
