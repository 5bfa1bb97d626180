package anexo

import (
	"errors"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, a *Anexo) error
	ListarPorEntrega(db *gorm.DB, entregaID uint) ([]Anexo, error)
	BuscarPorID(db *gorm.DB, id uint) (*Anexo, error)
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, a *Anexo) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) ListarPorEntrega(db *gorm.DB, entregaID uint) ([]Anexo, error) {
	var anexos []Anexo
	err := db.Where("entrega_id = ?", entregaID).Order("created_at").Find(&anexos).Error
	return anexos, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Anexo, error) {
	var a Anexo
	if err := db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("anexo não encontrado")
		}
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&Anexo{}, id).Error
}
