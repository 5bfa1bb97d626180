package projeto

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

// RemovedorEntregas apaga as entregas de um projeto junto com seus
// comentários e anexos. Implementado pelo repositório de entregas.
type RemovedorEntregas interface {
	DeletarPorProjeto(db *gorm.DB, projetoID uint) []string
}

// Handler encapsula DB e repositories
type Handler struct {
	DB       *gorm.DB
	Repo     Repository
	Usuarios usuario.Repository
	Entregas RemovedorEntregas
	Log      zerolog.Logger
}

func NewHandler(db *gorm.DB, entregas RemovedorEntregas, log zerolog.Logger) *Handler {
	return &Handler{
		DB:       db,
		Repo:     NewRepository(),
		Usuarios: usuario.NewRepository(),
		Entregas: entregas,
		Log:      log,
	}
}

// Criar cadastra um projeto (admin apenas).
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	if perfil.Role != escopo.RoleAdmin {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("apenas administradores podem criar projetos"))
		return
	}

	var req CriarProjetoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	membros, err := h.carregarMembros(req.MembroIDs)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	status := req.Status
	if status == "" {
		status = StatusEmAndamento
	}

	p := Projeto{
		Cliente:             req.Cliente,
		Nome:                req.Nome,
		Descricao:           req.Descricao,
		Link:                req.Link,
		AdminID:             perfil.ID,
		Status:              status,
		PercentualConclusao: req.Percentual,
		Membros:             membros,
	}
	if err := h.Repo.Criar(h.DB, &p); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao salvar projeto"))
		return
	}

	h.Log.Info().Uint("projetoId", p.ID).Str("cliente", p.Cliente).Msg("projeto criado")
	utils.ResponderJSON(w, http.StatusCreated, p)
}

// Listar devolve os projetos visíveis ao chamador.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	esc, err := escopo.Resolver(auth.PerfilDaRequisicao(r))
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	projetos, err := h.Repo.ListarEscopado(esc.Projetos(h.DB.Model(&Projeto{})))
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar projetos"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, projetos)
}

// BuscarPorID retorna um projeto pelo ID, respeitando o escopo.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	if perfil.Role != escopo.RoleAdmin {
		membro, err := h.Repo.EhMembro(h.DB, id, perfil.ID)
		if err != nil {
			apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao verificar membro"))
			return
		}
		if !membro {
			apperrors.Escrever(w, h.Log, apperrors.NaoEncontrado("projeto não encontrado"))
			return
		}
	}

	p, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, p)
}

// Atualizar altera dados e membros de um projeto (admin apenas).
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	if auth.PerfilDaRequisicao(r).Role != escopo.RoleAdmin {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("apenas administradores podem editar projetos"))
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	var req AtualizarProjetoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	p, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	p.Cliente = req.Cliente
	p.Nome = req.Nome
	p.Descricao = req.Descricao
	p.Link = req.Link
	p.Status = req.Status
	p.PercentualConclusao = req.Percentual
	if err := h.Repo.Atualizar(h.DB, p); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao atualizar projeto"))
		return
	}

	if req.MembroIDs != nil {
		membros, err := h.carregarMembros(*req.MembroIDs)
		if err != nil {
			apperrors.Escrever(w, h.Log, err)
			return
		}
		if err := h.Repo.SubstituirMembros(h.DB, p, membros); err != nil {
			apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao atualizar membros"))
			return
		}
		p.Membros = membros
	}

	utils.ResponderJSON(w, http.StatusOK, p)
}

// Deletar remove o projeto e, em cascata, suas entregas com comentários e
// anexos. Repetir a exclusão é um no-op de sucesso, sem reexecutar a
// cascata. A cascata é de melhor esforço: falhas parciais viram avisos.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	if auth.PerfilDaRequisicao(r).Role != escopo.RoleAdmin {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("apenas administradores podem excluir projetos"))
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	jaExcluido, err := h.Repo.Deletar(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	var avisos []string
	if !jaExcluido {
		avisos = h.Entregas.DeletarPorProjeto(h.DB, id)
		for _, aviso := range avisos {
			h.Log.Warn().Uint("projetoId", id).Str("aviso", aviso).Msg("cascata parcial na exclusão do projeto")
		}
	}

	resultado := DeleteResultDTO{
		Mensagem: "projeto excluído com sucesso",
		Avisos:   avisos,
	}
	if len(avisos) > 0 {
		resultado.Codigo = string(apperrors.CodigoCascataParcial)
	}
	utils.ResponderJSON(w, http.StatusOK, resultado)
}

// carregarMembros resolve os IDs informados em usuários ativos com papel de
// prestador; qualquer ID inválido derruba a requisição antes de escrever.
func (h *Handler) carregarMembros(ids []uint) ([]usuario.Usuario, error) {
	membros := make([]usuario.Usuario, 0, len(ids))
	for _, id := range ids {
		u, err := h.Usuarios.BuscarPorID(h.DB, id)
		if err != nil {
			return nil, apperrors.Validacao("membro não encontrado: " + strconv.Itoa(int(id)))
		}
		if !u.Utilizavel() {
			return nil, apperrors.Validacao("membro inativo não pode integrar projeto: " + u.Email)
		}
		membros = append(membros, *u)
	}
	return membros, nil
}

func idDaRota(r *http.Request) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, apperrors.Validacao("ID inválido")
	}
	return uint(id), nil
}
