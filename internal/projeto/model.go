package projeto

import (
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"gorm.io/gorm"
)

const (
	StatusEmAndamento = "EM_ANDAMENTO"
	StatusConcluido   = "CONCLUIDO"
	StatusPausado     = "PAUSADO"
	StatusCancelado   = "CANCELADO"
)

// Projeto agrupa entregas de um cliente e define quais prestadores
// podem recebê-las (Membros).
type Projeto struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Cliente   string `json:"cliente"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao,omitempty"`
	Link      string `json:"link,omitempty"`

	AdminID             uint   `json:"adminId"`
	Status              string `json:"status"`
	PercentualConclusao int    `json:"percentualConclusao"`

	Membros []usuario.Usuario `gorm:"many2many:projeto_membros" json:"membros"`
}
