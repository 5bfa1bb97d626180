package notificacao

import (
	"errors"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"gorm.io/gorm"
)

type Repository interface {
	CriarLote(db *gorm.DB, notificacoes []Notificacao) error
	ListarPorDestinatario(db *gorm.DB, destinatarioID uint) ([]Notificacao, error)
	MarcarLida(db *gorm.DB, id, destinatarioID uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// CriarLote insere todas as notificações de um fan-out em uma única escrita.
func (r *repositoryImpl) CriarLote(db *gorm.DB, notificacoes []Notificacao) error {
	if len(notificacoes) == 0 {
		return nil
	}
	return db.Create(&notificacoes).Error
}

func (r *repositoryImpl) ListarPorDestinatario(db *gorm.DB, destinatarioID uint) ([]Notificacao, error) {
	var lista []Notificacao
	err := db.
		Where("destinatario_id = ?", destinatarioID).
		Order("created_at DESC").
		Find(&lista).Error
	return lista, err
}

// MarcarLida só transiciona lida de false para true; nunca o inverso.
func (r *repositoryImpl) MarcarLida(db *gorm.DB, id, destinatarioID uint) error {
	var n Notificacao
	err := db.Where("id = ? AND destinatario_id = ?", id, destinatarioID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NaoEncontrado("notificação não encontrada")
		}
		return err
	}
	if n.Lida {
		return nil
	}
	return db.Model(&n).Update("lida", true).Error
}
