package comentario

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/notificacao"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/NorteEngenharia/api-prestador/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// BuscadorEntrega resolve a entrega comentada sem acoplar este pacote ao
// pacote de entregas. Implementado pelo repositório de entregas.
type BuscadorEntrega interface {
	InfoEntrega(db *gorm.DB, entregaID uint) (projetoID, prestadorID uint, err error)
}

type criarComentarioRequest struct {
	Texto string `json:"texto" validate:"required"`
}

// Handler encapsula DB e repositories
type Handler struct {
	DB       *gorm.DB
	Repo     Repository
	Entregas BuscadorEntrega
	Usuarios usuario.Repository
	Fanout   *notificacao.Fanout
	Log      zerolog.Logger
}

func NewHandler(db *gorm.DB, entregas BuscadorEntrega, fanout *notificacao.Fanout, log zerolog.Logger) *Handler {
	return &Handler{
		DB:       db,
		Repo:     NewRepository(),
		Entregas: entregas,
		Usuarios: usuario.NewRepository(),
		Fanout:   fanout,
		Log:      log,
	}
}

// Criar acrescenta um comentário à entrega. Comentário de prestador notifica
// os admins ativos; a notificação é derivada e nunca bloqueia a escrita.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	entregaID, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	projetoID, prestadorID, err := h.Entregas.InfoEntrega(h.DB, entregaID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	if perfil.Role != escopo.RoleAdmin && prestadorID != perfil.ID {
		apperrors.Escrever(w, h.Log, apperrors.NaoEncontrado("entrega não encontrada"))
		return
	}

	var req criarComentarioRequest
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

	c := Comentario{
		EntregaID: entregaID,
		AutorID:   autor.ID,
		AutorNome: autor.Nome,
		Texto:     req.Texto,
	}
	if err := h.Repo.Criar(h.DB, &c); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao salvar comentário"))
		return
	}

	if perfil.Role == escopo.RolePrestador {
		h.Fanout.Notificar(notificacao.Evento{
			Tipo:      notificacao.TipoNovoComentario,
			Titulo:    "Novo comentário de " + autor.Nome,
			ProjetoID: &projetoID,
			EntregaID: &entregaID,
		})
	}

	utils.ResponderJSON(w, http.StatusCreated, c)
}

// ListarPorEntrega devolve os comentários de uma entrega visível ao chamador.
func (h *Handler) ListarPorEntrega(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	entregaID, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	_, prestadorID, err := h.Entregas.InfoEntrega(h.DB, entregaID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	if perfil.Role != escopo.RoleAdmin && prestadorID != perfil.ID {
		apperrors.Escrever(w, h.Log, apperrors.NaoEncontrado("entrega não encontrada"))
		return
	}

	comentarios, err := h.Repo.ListarPorEntrega(h.DB, entregaID)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar comentários"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, comentarios)
}

func idDaRota(r *http.Request) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, apperrors.Validacao("ID inválido")
	}
	return uint(id), nil
}
