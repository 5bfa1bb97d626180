package comentario

import "gorm.io/gorm"

type Repository interface {
	Criar(db *gorm.DB, c *Comentario) error
	ListarPorEntrega(db *gorm.DB, entregaID uint) ([]Comentario, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Comentario) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) ListarPorEntrega(db *gorm.DB, entregaID uint) ([]Comentario, error) {
	var comentarios []Comentario
	err := db.Where("entrega_id = ?", entregaID).Order("created_at").Find(&comentarios).Error
	return comentarios, err
}
