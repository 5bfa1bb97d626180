package usuario

import (
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"gorm.io/gorm"
)

const (
	StatusPendente  = "PENDENTE"
	StatusAtivo     = "ATIVO"
	StatusRejeitado = "REJEITADO"
	StatusExcluido  = "EXCLUIDO"
)

// Usuario é o perfil de domínio ligado à identidade autenticada.
type Usuario struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email          string     `json:"email" gorm:"unique"`
	Nome           string     `json:"nome"`
	Senha          string     `json:"-"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	Ativo          bool       `json:"ativo"`
	ChavePagamento string     `json:"chavePagamento,omitempty"`
	Foto           string     `json:"foto,omitempty"`
	AprovadoEm     *time.Time `json:"aprovadoEm,omitempty"`
	ExcluidoEm     *time.Time `json:"excluidoEm,omitempty"`
}

// Utilizavel indica se o perfil pode entrar nas telas de trabalho.
func (u *Usuario) Utilizavel() bool {
	return u.Ativo && u.Status == StatusAtivo
}

// Visao calcula a tela inicial do usuário: "pendente" enquanto a conta não
// for aprovada, senão a home do papel.
func (u *Usuario) Visao() string {
	if !u.Utilizavel() {
		return "pendente"
	}
	if u.Role == escopo.RoleAdmin {
		return "admin"
	}
	return "prestador"
}
