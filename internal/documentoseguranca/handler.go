package documentoseguranca

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/NorteEngenharia/api-prestador/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type criarDocumentoRequest struct {
	PrestadorID uint   `json:"prestadorId"`
	Tipo        string `json:"tipo" validate:"required,oneof=NR10 NR33 NR35 ASO OUTRO"`
	Titulo      string `json:"titulo" validate:"required"`
	Emissao     string `json:"emissao" validate:"required,datetime=2006-01-02"`
	Validade    string `json:"validade" validate:"omitempty,datetime=2006-01-02"`
	Link        string `json:"link" validate:"omitempty,url"`
	Observacoes string `json:"observacoes"`
}

// Handler encapsula DB e repositories
type Handler struct {
	DB       *gorm.DB
	Repo     Repository
	Usuarios usuario.Repository
	Log      zerolog.Logger
}

func NewHandler(db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{
		DB:       db,
		Repo:     NewRepository(),
		Usuarios: usuario.NewRepository(),
		Log:      log,
	}
}

// Criar registra um documento de segurança. Prestador registra para si;
// admin pode registrar para qualquer prestador via prestadorId.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	var req criarDocumentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	dono := perfil.ID
	if perfil.Role == escopo.RoleAdmin && req.PrestadorID != 0 {
		dono = req.PrestadorID
	} else if perfil.Role != escopo.RoleAdmin && req.PrestadorID != 0 && req.PrestadorID != perfil.ID {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("prestador só registra documentos próprios"))
		return
	}

	emissao, err := time.Parse("2006-01-02", req.Emissao)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("emissão mal formada, use AAAA-MM-DD"))
		return
	}
	var validade *time.Time
	if req.Validade != "" {
		v, err := time.Parse("2006-01-02", req.Validade)
		if err != nil {
			apperrors.Escrever(w, h.Log, apperrors.Validacao("validade mal formada, use AAAA-MM-DD"))
			return
		}
		validade = &v
	}

	criador, err := h.Usuarios.BuscarPorID(h.DB, perfil.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	d := DocumentoSeguranca{
		PrestadorID: dono,
		Tipo:        req.Tipo,
		Titulo:      req.Titulo,
		Emissao:     emissao,
		Validade:    validade,
		Link:        req.Link,
		Observacoes: req.Observacoes,
		CriadorID:   criador.ID,
		CriadorNome: criador.Nome,
	}
	if err := h.Repo.Criar(h.DB, &d); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao salvar documento"))
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, d)
}

// Listar devolve os documentos visíveis: admin enxerga todos (ou filtra por
// ?prestadorId=), prestador enxerga apenas os próprios.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	if perfil.Role == escopo.RoleAdmin {
		if filtro := r.URL.Query().Get("prestadorId"); filtro != "" {
			id, err := strconv.Atoi(filtro)
			if err != nil || id < 1 {
				apperrors.Escrever(w, h.Log, apperrors.Validacao("prestadorId inválido"))
				return
			}
			docs, err := h.Repo.ListarPorPrestador(h.DB, uint(id))
			if err != nil {
				apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar documentos"))
				return
			}
			utils.ResponderJSON(w, http.StatusOK, docs)
			return
		}
		docs, err := h.Repo.ListarTodos(h.DB)
		if err != nil {
			apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar documentos"))
			return
		}
		utils.ResponderJSON(w, http.StatusOK, docs)
		return
	}

	docs, err := h.Repo.ListarPorPrestador(h.DB, perfil.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar documentos"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, docs)
}

// Remover exclui um documento. Admin ou o prestador dono.
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("ID inválido"))
		return
	}

	d, err := h.Repo.BuscarPorID(h.DB, uint(id))
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	if perfil.Role != escopo.RoleAdmin && d.PrestadorID != perfil.ID {
		apperrors.Escrever(w, h.Log, apperrors.NaoEncontrado("documento não encontrado"))
		return
	}

	if err := h.Repo.Remover(h.DB, uint(id)); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao excluir documento"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
