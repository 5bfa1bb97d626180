package entrega

import (
	"errors"
	"fmt"

	"github.com/NorteEngenharia/api-prestador/internal/anexo"
	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/comentario"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, e *Entrega) error
	BuscarPorID(db *gorm.DB, id uint) (*Entrega, error)
	ListarEscopado(db *gorm.DB) ([]Entrega, error)
	Atualizar(db *gorm.DB, e *Entrega) error
	AtualizarStatus(db *gorm.DB, id uint, status string) error
	ContarAnexos(db *gorm.DB, entregaID uint) (int64, error)
	InfoEntrega(db *gorm.DB, entregaID uint) (projetoID, prestadorID uint, err error)
	DeletarComCascata(db *gorm.DB, id uint) (jaExcluida bool, avisos []string, err error)
	DeletarPorProjeto(db *gorm.DB, projetoID uint) []string
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, e *Entrega) error {
	return db.Create(e).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Entrega, error) {
	var e Entrega
	err := db.
		Preload("Anexos").
		Preload("Comentarios").
		First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("entrega não encontrada")
		}
		return nil, err
	}
	return &e, nil
}

// ListarEscopado lista entregas sobre um db já filtrado pelo escopo do chamador.
func (r *repositoryImpl) ListarEscopado(db *gorm.DB) ([]Entrega, error) {
	var entregas []Entrega
	err := db.
		Preload("Anexos").
		Preload("Comentarios").
		Order("entregas.prazo").
		Find(&entregas).Error
	return entregas, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, e *Entrega) error {
	return db.Omit("Anexos", "Comentarios").Save(e).Error
}

func (r *repositoryImpl) AtualizarStatus(db *gorm.DB, id uint, status string) error {
	return db.Model(&Entrega{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repositoryImpl) ContarAnexos(db *gorm.DB, entregaID uint) (int64, error) {
	var total int64
	err := db.Model(&anexo.Anexo{}).Where("entrega_id = ?", entregaID).Count(&total).Error
	return total, err
}

// InfoEntrega devolve os vínculos mínimos da entrega para checagens de
// acesso em outros pacotes (comentários, anexos).
func (r *repositoryImpl) InfoEntrega(db *gorm.DB, entregaID uint) (uint, uint, error) {
	var e Entrega
	err := db.Select("id", "projeto_id", "prestador_id").First(&e, entregaID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, apperrors.NaoEncontrado("entrega não encontrada")
		}
		return 0, 0, err
	}
	return e.ProjetoID, e.PrestadorID, nil
}

// DeletarComCascata remove a entrega e seus sub-registros. Repetir a
// exclusão é um no-op. Cada etapa da cascata é de melhor esforço; falhas
// viram avisos e as etapas seguintes prosseguem.
func (r *repositoryImpl) DeletarComCascata(db *gorm.DB, id uint) (bool, []string, error) {
	var e Entrega
	if err := db.Unscoped().First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, apperrors.NaoEncontrado("entrega não encontrada")
		}
		return false, nil, err
	}
	if e.DeletedAt.Valid {
		return true, nil, nil
	}

	var avisos []string
	if err := db.Where("entrega_id = ?", id).Delete(&comentario.Comentario{}).Error; err != nil {
		avisos = append(avisos, fmt.Sprintf("comentários da entrega %d não removidos: %v", id, err))
	}
	if err := db.Where("entrega_id = ?", id).Delete(&anexo.Anexo{}).Error; err != nil {
		avisos = append(avisos, fmt.Sprintf("anexos da entrega %d não removidos: %v", id, err))
	}
	if err := db.Delete(&Entrega{}, id).Error; err != nil {
		avisos = append(avisos, fmt.Sprintf("entrega %d não removida: %v", id, err))
	}
	return false, avisos, nil
}

// DeletarPorProjeto remove todas as entregas de um projeto com seus
// sub-registros, tolerando conclusão parcial.
func (r *repositoryImpl) DeletarPorProjeto(db *gorm.DB, projetoID uint) []string {
	var ids []uint
	if err := db.Model(&Entrega{}).Where("projeto_id = ?", projetoID).Pluck("id", &ids).Error; err != nil {
		return []string{fmt.Sprintf("entregas do projeto %d não localizadas: %v", projetoID, err)}
	}

	var avisos []string
	for _, id := range ids {
		_, av, err := r.DeletarComCascata(db, id)
		if err != nil {
			avisos = append(avisos, fmt.Sprintf("entrega %d não removida: %v", id, err))
			continue
		}
		avisos = append(avisos, av...)
	}
	return avisos
}
