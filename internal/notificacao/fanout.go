package notificacao

import (
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Evento descreve uma transição de entrega ou um comentário que gera
// notificações derivadas.
type Evento struct {
	Tipo        string
	Titulo      string
	ProjetoID   *uint
	EntregaID   *uint
	PrestadorID uint // destinatário dos eventos dirigidos ao prestador
}

// BuscadorAdmins resolve os destinatários administradores ativos.
type BuscadorAdmins interface {
	ListarAdminsAtivos(db *gorm.DB) ([]usuario.Usuario, error)
}

// Fanout materializa um registro de notificação por destinatário do evento.
// Toda a operação é de melhor esforço: falha aqui nunca derruba a mutação
// que originou o evento; o erro vira warn no log.
type Fanout struct {
	DB       *gorm.DB
	Usuarios BuscadorAdmins
	Repo     Repository
	Log      zerolog.Logger
}

func NewFanout(db *gorm.DB, usuarios BuscadorAdmins, log zerolog.Logger) *Fanout {
	return &Fanout{
		DB:       db,
		Usuarios: usuarios,
		Repo:     NewRepository(),
		Log:      log,
	}
}

// Notificar calcula os destinatários do evento e grava o lote.
func (f *Fanout) Notificar(ev Evento) {
	destinatarios, err := f.destinatarios(ev)
	if err != nil {
		f.Log.Warn().Err(err).Str("tipo", ev.Tipo).Msg("fan-out: falha ao resolver destinatários")
		return
	}
	if len(destinatarios) == 0 {
		return
	}

	lote := make([]Notificacao, 0, len(destinatarios))
	for _, id := range destinatarios {
		lote = append(lote, Notificacao{
			DestinatarioID: id,
			Tipo:           ev.Tipo,
			Titulo:         ev.Titulo,
			ProjetoID:      ev.ProjetoID,
			EntregaID:      ev.EntregaID,
			Lida:           false,
		})
	}

	if err := f.Repo.CriarLote(f.DB, lote); err != nil {
		f.Log.Warn().Err(err).Str("tipo", ev.Tipo).Int("destinatarios", len(lote)).
			Msg("fan-out: falha ao gravar notificações")
	}
}

func (f *Fanout) destinatarios(ev Evento) ([]uint, error) {
	switch ev.Tipo {
	case TipoEntregaEnviada, TipoNovoComentario:
		admins, err := f.Usuarios.ListarAdminsAtivos(f.DB)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(admins))
		for _, a := range admins {
			ids = append(ids, a.ID)
		}
		return ids, nil
	case TipoEntregaAprovada, TipoAjustesSolicitados:
		return []uint{ev.PrestadorID}, nil
	default:
		return nil, nil
	}
}
