package anexo

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/NorteEngenharia/api-prestador/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// BuscadorEntrega resolve a entrega dona do anexo sem acoplar este pacote
// ao pacote de entregas. Implementado pelo repositório de entregas.
type BuscadorEntrega interface {
	InfoEntrega(db *gorm.DB, entregaID uint) (projetoID, prestadorID uint, err error)
}

type criarAnexoRequest struct {
	Nome        string `json:"nome" validate:"required"`
	URL         string `json:"url" validate:"omitempty,url"`
	Observacoes string `json:"observacoes"`
}

// Handler encapsula DB e repositories
type Handler struct {
	DB       *gorm.DB
	Repo     Repository
	Entregas BuscadorEntrega
	Usuarios usuario.Repository
	Log      zerolog.Logger
}

func NewHandler(db *gorm.DB, entregas BuscadorEntrega, log zerolog.Logger) *Handler {
	return &Handler{
		DB:       db,
		Repo:     NewRepository(),
		Entregas: entregas,
		Usuarios: usuario.NewRepository(),
		Log:      log,
	}
}

// Criar registra metadados de arquivo na entrega. Admin ou o prestador
// responsável.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	entregaID, err := idDaRota(r, "id")
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	if err := h.autorizar(perfil, entregaID); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	var req criarAnexoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	autor, err := h.Usuarios.BuscarPorID(h.DB, perfil.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	a := Anexo{
		EntregaID:    entregaID,
		Nome:         req.Nome,
		URL:          req.URL,
		Observacoes:  req.Observacoes,
		UploaderID:   autor.ID,
		UploaderNome: autor.Nome,
	}
	if err := h.Repo.Criar(h.DB, &a); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao salvar anexo"))
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, a)
}

// ListarPorEntrega devolve os anexos de uma entrega visível ao chamador.
func (h *Handler) ListarPorEntrega(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	entregaID, err := idDaRota(r, "id")
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	if err := h.autorizar(perfil, entregaID); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	anexos, err := h.Repo.ListarPorEntrega(h.DB, entregaID)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar anexos"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, anexos)
}

// Remover apaga o registro de anexo. Admin ou quem o registrou.
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	id, err := idDaRota(r, "id")
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	a, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	if perfil.Role != escopo.RoleAdmin && a.UploaderID != perfil.ID {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("anexo pertence a outro usuário"))
		return
	}

	if err := h.Repo.Remover(h.DB, id); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao excluir anexo"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) autorizar(perfil escopo.Perfil, entregaID uint) error {
	_, prestadorID, err := h.Entregas.InfoEntrega(h.DB, entregaID)
	if err != nil {
		return err
	}
	if perfil.Role != escopo.RoleAdmin && prestadorID != perfil.ID {
		return apperrors.NaoEncontrado("entrega não encontrada")
	}
	return nil
}

func idDaRota(r *http.Request, nome string) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)[nome])
	if err != nil || id < 1 {
		return 0, apperrors.Validacao("ID inválido")
	}
	return uint(id), nil
}
