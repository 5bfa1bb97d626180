package anexo

import "time"

// Anexo guarda apenas metadados e um link externo; nenhum binário é
// armazenado pelo sistema.
type Anexo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EntregaID    uint   `json:"entregaId" gorm:"index"`
	Nome         string `json:"nome"`
	URL          string `json:"url,omitempty"`
	Observacoes  string `json:"observacoes,omitempty"`
	UploaderID   uint   `json:"uploaderId"`
	UploaderNome string `json:"uploaderNome"`
}
