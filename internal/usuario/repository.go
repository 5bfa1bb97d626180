package usuario

import (
	"errors"
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, u *Usuario) error
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error)
	ListarEscopado(db *gorm.DB) ([]Usuario, error)
	ListarAdminsAtivos(db *gorm.DB) ([]Usuario, error)
	Aprovar(db *gorm.DB, id uint, role string) (*Usuario, error)
	Rejeitar(db *gorm.DB, id uint) (*Usuario, error)
	AtualizarSenha(db *gorm.DB, id uint, hash string) error
	SoftDelete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("usuário não encontrado")
		}
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("usuário não encontrado")
		}
		return nil, err
	}
	return &u, nil
}

// ListarEscopado lista usuários sobre um db já filtrado pelo escopo do chamador.
func (r *repositoryImpl) ListarEscopado(db *gorm.DB) ([]Usuario, error) {
	var usuarios []Usuario
	err := db.Order("nome").Find(&usuarios).Error
	return usuarios, err
}

func (r *repositoryImpl) ListarAdminsAtivos(db *gorm.DB) ([]Usuario, error) {
	var admins []Usuario
	err := db.
		Where("role = ? AND ativo = ? AND status = ?", escopo.RoleAdmin, true, StatusAtivo).
		Find(&admins).Error
	return admins, err
}

// Aprovar ativa a conta e atribui o papel definitivo escolhido pelo admin.
func (r *repositoryImpl) Aprovar(db *gorm.DB, id uint, role string) (*Usuario, error) {
	u, err := r.BuscarPorID(db, id)
	if err != nil {
		return nil, err
	}
	agora := time.Now()
	u.Status = StatusAtivo
	u.Ativo = true
	u.Role = role
	u.AprovadoEm = &agora
	if err := db.Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Rejeitar nega a conta pendente. Nenhuma notificação é gerada.
func (r *repositoryImpl) Rejeitar(db *gorm.DB, id uint) (*Usuario, error) {
	u, err := r.BuscarPorID(db, id)
	if err != nil {
		return nil, err
	}
	u.Status = StatusRejeitado
	u.Ativo = false
	if err := db.Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repositoryImpl) AtualizarSenha(db *gorm.DB, id uint, hash string) error {
	return db.Model(&Usuario{}).Where("id = ?", id).Update("senha", hash).Error
}

// SoftDelete marca a conta como excluída. Repetir a exclusão é um no-op:
// o registro já excluído mantém o ExcluidoEm original.
func (r *repositoryImpl) SoftDelete(db *gorm.DB, id uint) error {
	var u Usuario
	if err := db.Unscoped().First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NaoEncontrado("usuário não encontrado")
		}
		return err
	}
	if u.DeletedAt.Valid {
		return nil
	}

	agora := time.Now()
	u.Status = StatusExcluido
	u.Ativo = false
	u.ExcluidoEm = &agora
	if err := db.Save(&u).Error; err != nil {
		return err
	}
	return db.Delete(&Usuario{}, id).Error
}
