package usuario

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Log        zerolog.Logger
}

func NewHandler(db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Log:        log,
	}
}

// Registrar cria o perfil inicial pendente de aprovação (gate de sessão):
// todo cadastro nasce PRESTADOR, PENDENTE e inativo até um admin decidir.
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var req RegistroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao processar senha"))
		return
	}

	u := Usuario{
		Email:  req.Email,
		Nome:   req.Nome,
		Senha:  hash,
		Foto:   req.Foto,
		Role:   escopo.RolePrestador,
		Status: StatusPendente,
		Ativo:  false,
	}
	if err := h.Repository.Salvar(h.DB, &u); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao salvar usuário"))
		return
	}

	h.Log.Info().Uint("usuarioId", u.ID).Str("email", u.Email).Msg("cadastro pendente criado")
	utils.ResponderJSON(w, http.StatusCreated, u)
}

// Login gera um JWT para credenciais válidas. Contas pendentes também logam:
// a visão devolvida direciona para a tela de espera.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	u, err := h.Repository.BuscarPorEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}
	if !utils.VerificarSenha(u.Senha, req.Senha) {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := auth.GerarToken(u.ID, u.Role)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao gerar token"))
		return
	}

	utils.ResponderJSON(w, http.StatusOK, LoginResponse{Token: token, Visao: u.Visao()})
}

// Me retorna o perfil logado e a visão inicial.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	u, err := h.Repository.BuscarPorID(h.DB, perfil.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, MeDTO{Usuario: *u, Visao: u.Visao()})
}

// Listar devolve os usuários visíveis ao chamador.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	esc, err := escopo.Resolver(auth.PerfilDaRequisicao(r))
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	usuarios, err := h.Repository.ListarEscopado(esc.Usuarios(h.DB))
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar usuários"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, usuarios)
}

// AtualizarPerfil altera os dados editáveis do próprio usuário.
func (h *Handler) AtualizarPerfil(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	var req AtualizarPerfilRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	u, err := h.Repository.BuscarPorID(h.DB, perfil.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	u.Nome = req.Nome
	u.ChavePagamento = req.ChavePagamento
	u.Foto = req.Foto
	if err := h.Repository.Salvar(h.DB, u); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao atualizar perfil"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, u)
}

// Aprovar ativa uma conta pendente e define o papel (admin apenas).
func (h *Handler) Aprovar(w http.ResponseWriter, r *http.Request) {
	if err := h.exigirAdmin(r); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	var req AprovarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("payload inválido"))
		return
	}
	if err := utils.ValidarStruct(req); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	u, err := h.Repository.Aprovar(h.DB, id, req.Role)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	h.Log.Info().Uint("usuarioId", u.ID).Str("role", u.Role).Msg("usuário aprovado")
	utils.ResponderJSON(w, http.StatusOK, u)
}

// Rejeitar nega uma conta pendente (admin apenas).
func (h *Handler) Rejeitar(w http.ResponseWriter, r *http.Request) {
	if err := h.exigirAdmin(r); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	u, err := h.Repository.Rejeitar(h.DB, id)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, u)
}

// ResetarSenha gera uma senha temporária para o usuário (admin apenas).
func (h *Handler) ResetarSenha(w http.ResponseWriter, r *http.Request) {
	if err := h.exigirAdmin(r); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	if _, err := h.Repository.BuscarPorID(h.DB, id); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	temporaria, err := utils.GerarSenhaTemporaria()
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao gerar senha"))
		return
	}
	hash, err := utils.HashSenha(temporaria)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao processar senha"))
		return
	}
	if err := h.Repository.AtualizarSenha(h.DB, id, hash); err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao atualizar senha"))
		return
	}

	utils.ResponderJSON(w, http.StatusOK, SenhaTemporariaDTO{SenhaTemporaria: temporaria})
}

// Deletar marca a conta como excluída (admin apenas, idempotente).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	if err := h.exigirAdmin(r); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	id, err := idDaRota(r)
	if err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}

	if err := h.Repository.SoftDelete(h.DB, id); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exigirAdmin(r *http.Request) error {
	if auth.PerfilDaRequisicao(r).Role != escopo.RoleAdmin {
		return apperrors.AcessoNegado("apenas administradores podem gerenciar usuários")
	}
	return nil
}

func idDaRota(r *http.Request) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		return 0, apperrors.Validacao("ID inválido")
	}
	return uint(id), nil
}
