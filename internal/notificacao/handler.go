package notificacao

import (
	"net/http"
	"strconv"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB   *gorm.DB
	Repo Repository
	Log  zerolog.Logger
}

func NewHandler(db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{DB: db, Repo: NewRepository(), Log: log}
}

// Listar devolve as notificações do próprio usuário, mais recentes primeiro.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	lista, err := h.Repo.ListarPorDestinatario(h.DB, perfil.ID)
	if err != nil {
		apperrors.Escrever(w, h.Log, apperrors.StoreIndisponivel(err, "erro ao listar notificações"))
		return
	}
	utils.ResponderJSON(w, http.StatusOK, lista)
}

// MarcarLida marca a notificação do próprio usuário como lida.
func (h *Handler) MarcarLida(w http.ResponseWriter, r *http.Request) {
	perfil := auth.PerfilDaRequisicao(r)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		apperrors.Escrever(w, h.Log, apperrors.Validacao("ID inválido"))
		return
	}

	if err := h.Repo.MarcarLida(h.DB, uint(id), perfil.ID); err != nil {
		apperrors.Escrever(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
