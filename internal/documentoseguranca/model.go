package documentoseguranca

import "time"

const (
	TipoNR10  = "NR10"
	TipoNR33  = "NR33"
	TipoNR35  = "NR35"
	TipoASO   = "ASO"
	TipoOutro = "OUTRO"
)

// DocumentoSeguranca é o registro de certificação do prestador. Nunca é
// atualizado em vigor: correção é excluir e recriar.
type DocumentoSeguranca struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	PrestadorID uint       `json:"prestadorId" gorm:"index"`
	Tipo        string     `json:"tipo"`
	Titulo      string     `json:"titulo"`
	Emissao     time.Time  `json:"emissao"`
	Validade    *time.Time `json:"validade,omitempty"`
	Link        string     `json:"link,omitempty"`
	Observacoes string     `json:"observacoes,omitempty"`
	CriadorID   uint       `json:"criadorId"`
	CriadorNome string     `json:"criadorNome"`
}
