package notificacao

import "time"

// Tipos de notificação gerados pelas transições de entrega e por comentários.
const (
	TipoNovoComentario     = "NOVO_COMENTARIO"
	TipoEntregaEnviada     = "ENTREGA_ENVIADA"
	TipoEntregaAprovada    = "ENTREGA_APROVADA"
	TipoAjustesSolicitados = "AJUSTES_SOLICITADOS"
)

// Notificacao é um registro de escrita única; apenas Lida muda, e somente
// de false para true.
type Notificacao struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	DestinatarioID uint   `json:"destinatarioId" gorm:"index"`
	Tipo           string `json:"tipo"`
	Titulo         string `json:"titulo"`
	ProjetoID      *uint  `json:"projetoId,omitempty"`
	EntregaID      *uint  `json:"entregaId,omitempty"`
	Lida           bool   `json:"lida"`
}
