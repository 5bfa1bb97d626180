package escopo

import (
	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"gorm.io/gorm"
)

// Papéis reconhecidos pelo portal.
const (
	RoleAdmin     = "ADMIN"
	RolePrestador = "PRESTADOR"
)

// Perfil é a identidade mínima extraída do token autenticado.
type Perfil struct {
	ID   uint
	Role string
}

// Escopo aplica o filtro de visibilidade do chamador sobre cada coleção.
// Admin enxerga tudo; prestador enxerga apenas o que é membro ou responsável.
type Escopo struct {
	perfil Perfil
}

// Resolver devolve o escopo do perfil. Papel desconhecido é erro,
// nunca um escopo sem filtro.
func Resolver(p Perfil) (Escopo, error) {
	switch p.Role {
	case RoleAdmin, RolePrestador:
		return Escopo{perfil: p}, nil
	default:
		return Escopo{}, apperrors.Validacao("papel desconhecido: " + p.Role)
	}
}

func (e Escopo) Perfil() Perfil { return e.perfil }

func (e Escopo) Admin() bool { return e.perfil.Role == RoleAdmin }

// Projetos restringe a consulta aos projetos dos quais o prestador é membro.
func (e Escopo) Projetos(db *gorm.DB) *gorm.DB {
	if e.Admin() {
		return db
	}
	return db.
		Joins("JOIN projeto_membros pm ON pm.projeto_id = projetos.id").
		Where("pm.usuario_id = ?", e.perfil.ID)
}

// Entregas restringe a consulta às entregas atribuídas ao prestador.
func (e Escopo) Entregas(db *gorm.DB) *gorm.DB {
	if e.Admin() {
		return db
	}
	return db.Where("entregas.prestador_id = ?", e.perfil.ID)
}

// Usuarios oculta contas excluídas do admin e contas não ativas do prestador.
func (e Escopo) Usuarios(db *gorm.DB) *gorm.DB {
	if e.Admin() {
		return db.Where("usuarios.status <> ?", "EXCLUIDO")
	}
	return db.Where("usuarios.status = ?", "ATIVO")
}
