package documentoseguranca

import (
	"errors"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, d *DocumentoSeguranca) error
	BuscarPorID(db *gorm.DB, id uint) (*DocumentoSeguranca, error)
	ListarPorPrestador(db *gorm.DB, prestadorID uint) ([]DocumentoSeguranca, error)
	ListarTodos(db *gorm.DB) ([]DocumentoSeguranca, error)
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, d *DocumentoSeguranca) error {
	return db.Create(d).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*DocumentoSeguranca, error) {
	var d DocumentoSeguranca
	if err := db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("documento não encontrado")
		}
		return nil, err
	}
	return &d, nil
}

func (r *repositoryImpl) ListarPorPrestador(db *gorm.DB, prestadorID uint) ([]DocumentoSeguranca, error) {
	var docs []DocumentoSeguranca
	err := db.Where("prestador_id = ?", prestadorID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]DocumentoSeguranca, error) {
	var docs []DocumentoSeguranca
	err := db.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&DocumentoSeguranca{}, id).Error
}
