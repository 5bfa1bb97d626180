package comentario

import "time"

// Comentario é um registro apenas-acrescentar: nunca é editado nem removido
// individualmente, apenas junto da exclusão da entrega.
type Comentario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EntregaID uint   `json:"entregaId" gorm:"index"`
	AutorID   uint   `json:"autorId"`
	AutorNome string `json:"autorNome"`
	Texto     string `json:"texto"`
}
