package dto

// ─── Auth ────────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Nombre   *string `json:"nombre"`
	Apellido *string `json:"apellido"`
	Rol      string  `json:"rol"      validate:"required,oneof=admin gerente vendedor"`
	SedeID   *string `json:"sede_id"  validate:"omitempty,uuid"`
}

type ActualizarUsuarioRequest struct {
	Nombre   *string `json:"nombre"`
	Apellido *string `json:"apellido"`
	Rol      string  `json:"rol"      validate:"omitempty,oneof=admin gerente vendedor"`
	SedeID   *string `json:"sede_id"  validate:"omitempty,uuid"`
	Password string  `json:"password" validate:"omitempty,min=6"`
}

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Nombre   *string `json:"nombre"`
	Apellido *string `json:"apellido"`
	Rol      string  `json:"rol"`
	SedeID   *string `json:"sede_id"`
	Sede     *string `json:"sede"`
	Activo   bool    `json:"activo"`
}
