package usuario

// request DTOs
type RegistroRequest struct {
	Email string `json:"email" validate:"required,email"`
	Nome  string `json:"nome" validate:"required"`
	Senha string `json:"senha" validate:"required,min=6"`
	Foto  string `json:"foto" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type AprovarRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN PRESTADOR"`
}

type AtualizarPerfilRequest struct {
	Nome           string `json:"nome" validate:"required"`
	ChavePagamento string `json:"chavePagamento"`
	Foto           string `json:"foto" validate:"omitempty,url"`
}

// MeDTO devolve o perfil junto da visão inicial calculada pelo gate de sessão.
type MeDTO struct {
	Usuario Usuario `json:"usuario"`
	Visao   string  `json:"visao"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Visao string `json:"visao"`
}

type SenhaTemporariaDTO struct {
	SenhaTemporaria string `json:"senhaTemporaria"`
}
