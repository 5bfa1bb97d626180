package entrega

import (
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/anexo"
	"github.com/NorteEngenharia/api-prestador/internal/comentario"
	"gorm.io/gorm"
)

// Estados persistidos da entrega. ATRASADO nunca é gravado: é derivado do
// prazo na leitura (StatusEfetivo).
const (
	StatusPendente = "PENDENTE"
	StatusRevisao  = "REVISAO"
	StatusAjustes  = "AJUSTES"
	StatusAprovado = "APROVADO"

	StatusAtrasado = "ATRASADO"
)

const (
	PrioridadeBaixa = "BAIXA"
	PrioridadeMedia = "MEDIA"
	PrioridadeAlta  = "ALTA"
)

type ItemChecklist struct {
	Descricao string `json:"descricao"`
	Concluido bool   `json:"concluido"`
}

// Entrega é a unidade de trabalho rastreável atribuída a um prestador
// membro do projeto.
type Entrega struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProjetoID   uint   `json:"projetoId" gorm:"index"`
	NomeCliente string `json:"nomeCliente"`
	NomeProjeto string `json:"nomeProjeto"`

	Titulo     string    `json:"titulo"`
	Descricao  string    `json:"descricao,omitempty"`
	Prazo      time.Time `json:"prazo"`
	Status     string    `json:"status"`
	Prioridade string    `json:"prioridade"`

	PrestadorID   uint   `json:"prestadorId" gorm:"index"`
	PrestadorNome string `json:"prestadorNome"`

	Checklist []ItemChecklist `gorm:"type:jsonb;serializer:json" json:"checklist"`

	Anexos      []anexo.Anexo           `gorm:"foreignKey:EntregaID" json:"anexos"`
	Comentarios []comentario.Comentario `gorm:"foreignKey:EntregaID" json:"comentarios"`
}

// StatusEfetivo devolve o estado exibido: ATRASADO quando o prazo passou e a
// entrega ainda não foi aprovada, senão o estado armazenado.
func (e *Entrega) StatusEfetivo(agora time.Time) string {
	if e.Status != StatusAprovado && e.Prazo.Before(agora) {
		return StatusAtrasado
	}
	return e.Status
}
