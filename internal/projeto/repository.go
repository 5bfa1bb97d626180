package projeto

import (
	"errors"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, p *Projeto) error
	BuscarPorID(db *gorm.DB, id uint) (*Projeto, error)
	ListarEscopado(db *gorm.DB) ([]Projeto, error)
	Atualizar(db *gorm.DB, p *Projeto) error
	SubstituirMembros(db *gorm.DB, p *Projeto, membros []usuario.Usuario) error
	EhMembro(db *gorm.DB, projetoID, usuarioID uint) (bool, error)
	Deletar(db *gorm.DB, id uint) (jaExcluido bool, err error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, p *Projeto) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Projeto, error) {
	var p Projeto
	err := db.Preload("Membros").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("projeto não encontrado")
		}
		return nil, err
	}
	return &p, nil
}

// ListarEscopado lista projetos sobre um db já filtrado pelo escopo do chamador.
func (r *repositoryImpl) ListarEscopado(db *gorm.DB) ([]Projeto, error) {
	var projetos []Projeto
	err := db.Preload("Membros").Order("projetos.created_at DESC").Find(&projetos).Error
	return projetos, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Projeto) error {
	return db.Omit("Membros").Save(p).Error
}

func (r *repositoryImpl) SubstituirMembros(db *gorm.DB, p *Projeto, membros []usuario.Usuario) error {
	return db.Model(p).Association("Membros").Replace(membros)
}

func (r *repositoryImpl) EhMembro(db *gorm.DB, projetoID, usuarioID uint) (bool, error) {
	var total int64
	err := db.Table("projeto_membros").
		Where("projeto_id = ? AND usuario_id = ?", projetoID, usuarioID).
		Count(&total).Error
	return total > 0, err
}

// Deletar marca o projeto como excluído. Repetir a exclusão é um no-op; o
// retorno indica se o projeto já estava excluído.
func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) (bool, error) {
	var p Projeto
	if err := db.Unscoped().First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NaoEncontrado("projeto não encontrado")
		}
		return false, err
	}
	if p.DeletedAt.Valid {
		return true, nil
	}
	return false, db.Delete(&Projeto{}, id).Error
}
