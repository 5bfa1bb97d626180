package entrega

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/notificacao"
	"github.com/NorteEngenharia/api-prestador/internal/projeto"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/NorteEngenharia/api-prestador/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler encapsula DB, repositories e a máquina de estados
type Handler struct {
	DB       *gorm.DB
	Repo     Repository
	Projetos projeto.Repository
	Usuarios usuario.Repository
	Fanout   *notificacao.Fanout
	Maquina  MaquinaEstados
	Log      zerolog.Logger
}

func NewHandler(db *gorm.DB, fanout *notificacao.Fanout, maquina MaquinaEstados, log zerolog.Logger) *Handler {
	return &Handler{
		DB:       db,
		Repo:     NewRepository(),
		Projetos: projeto.NewRepository(),
		Usuarios: usuario.NewRepository(),
		Fanout:   fanout,
		Maquina:  maquina,
		Log:      log,
	}
}

// Criar cadastra uma entrega (admin apenas). O prestador indicado precisa
// ser membro do projeto; a validação acontece antes de qualquer escrita.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	if auth.PerfilDaRequisicao(r).Role != escopo.RoleAdmin {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("apenas administradores podem criar entregas"))
		return
	}

	var req CriarEntregaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	prazo, err := time.Parse("2006-01-02", req.Prazo)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("prazo mal formado, use AAAA-MM-DD"))
		return
	}

	p, err := h.Projetos.BuscarPorID(h.DB, req.ProjetoID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	membro, err := h.Projetos.EhMembro(h.DB, p.ID, req.PrestadorID)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao verificar membro"))
		return
	}
	if !membro {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("prestador não é membro do projeto"))
		return
	}

	prestador, err := h.Usuarios.BuscarPorID(h.DB, req.PrestadorID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	e := Entrega{
		ProjetoID:     p.ID,
		NomeCliente:   p.Cliente,
		NomeProjeto:   p.Nome,
		Titulo:        req.Titulo,
		Descricao:     req.Descricao,
		Prazo:         prazo,
		Status:        StatusPendente,
		Prioridade:    req.Prioridade,
		PrestadorID:   prestador.ID,
		PrestadorNome: prestador.Nome,
		Checklist:     req.Checklist,
	}
	if err := h.Repo.Criar(h.DB, &e); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao salvar entrega"))
		return
	}

	h.Log.Info().Uint("entregaId", e.ID).Uint("projetoId", p.ID).Msg("entrega criada")
	utils.ResponderJSON(w, http.StatusCreated, e)
}

// Listar devolve as entregas visíveis ao chamador, com o status derivado.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	esc, err := escopo.Resolver(perfil)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	entregas, err := h.Repo.ListarEscopado(esc.Entregas(h.DB.Model(&Entrega{})))
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar entregas"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, paraDTOs(entregas, h.Maquina, perfil.Role, time.Now()))
}

// BuscarPorID retorna uma entrega pelo ID, respeitando o escopo.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	e, err := h.buscarNoEscopo(perfil, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, paraDTO(*e, h.Maquina, perfil.Role, time.Now()))
}

// Atualizar altera os metadados da entrega (admin apenas). Status não passa
// por aqui; transições têm rota própria.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	if auth.PerfilDaRequisicao(r).Role != escopo.RoleAdmin {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("apenas administradores podem editar entregas"))
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	var req AtualizarEntregaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	prazo, err := time.Parse("2006-01-02", req.Prazo)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("prazo mal formado, use AAAA-MM-DD"))
		return
	}

	e, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	e.Titulo = req.Titulo
	e.Descricao = req.Descricao
	e.Prazo = prazo
	e.Prioridade = req.Prioridade
	e.Checklist = req.Checklist
	if err := h.Repo.Atualizar(h.DB, e); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao atualizar entrega"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, e)
}

// AtualizarStatus aplica uma transição da máquina de estados e dispara as
// notificações derivadas. A notificação é de melhor esforço e não desfaz
// nem bloqueia a mudança de status.
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	var req AtualizarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	e, err := h.buscarNoEscopo(perfil, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	totalAnexos, err := h.Repo.ContarAnexos(h.DB, e.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao verificar anexos"))
		return
	}

	if err := h.Maquina.Validar(perfil.Role, e.Status, req.Status, totalAnexos > 0); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	if err := h.Repo.AtualizarStatus(h.DB, e.ID, req.Status); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao atualizar status"))
		return
	}

	h.notificarTransicao(e, req.Status)

	e.Status = req.Status
	utils.ResponderJSON(w, http.StatusOK, paraDTO(*e, h.Maquina, perfil.Role, time.Now()))
}

// Deletar remove a entrega com comentários e anexos (admin apenas).
// Repetir a exclusão é um no-op de sucesso.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	if auth.PerfilDaRequisicao(r).Role != escopo.RoleAdmin {
		apperrors.Escrever(w, h.Log, apperrors.AcessoNegado("apenas administradores podem excluir entregas"))
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	_, avisos, err := h.Repo.DeletarComCascata(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	for _, aviso := range avisos {
		h.Log.Warn().Uint("entregaId", id).Str("aviso", aviso).Msg("cascata parcial na exclusão da entrega")
	}

	resultado := DeleteResultDTO{
		Mensagem: "entrega excluída com sucesso",
		Avisos:   avisos,
	}
	if len(avisos) > 0 {
		resultado.Codigo = string(apperrors.CodigoCascataParcial)
	}
	utils.ResponderJSON(w, http.StatusOK, resultado)
}

func (h *Handler) buscarNoEscopo(perfil escopo.Perfil, id uint) (*Entrega, error) {
	e, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		return nil, err
	}
	if perfil.Role != escopo.RoleAdmin && e.PrestadorID != perfil.ID {
		return nil, apperrors.NaoEncontrado("entrega não encontrada")
	}
	return e, nil
}

func (h *Handler) notificarTransicao(e *Entrega, novoStatus string) {
	projetoID := e.ProjetoID
	entregaID := e.ID
	ev := notificacao.Evento{
		ProjetoID:   &projetoID,
		EntregaID:   &entregaID,
		PrestadorID: e.PrestadorID,
	}

	switch novoStatus {
	case StatusRevisao:
		ev.Tipo = notificacao.TipoEntregaEnviada
		ev.Titulo = "Entrega enviada para revisão: " + e.Titulo
	case StatusAprovado:
		ev.Tipo = notificacao.TipoEntregaAprovada
		ev.Titulo = "Entrega aprovada: " + e.Titulo
	case StatusAjustes:
		ev.Tipo = notificacao.TipoAjustesSolicitados
		ev.Titulo = "Ajustes solicitados: " + e.Titulo
	default:
		return
	}

	h.Fanout.Notificar(ev)
}

func idDaRota(r *http.Request) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, apperrors.Validacao("ID inválido")
	}
	return uint(id), nil
}
