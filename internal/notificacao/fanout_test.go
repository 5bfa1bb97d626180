package notificacao

import (
	"errors"
	"testing"

	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type fakeBuscadorAdmins struct {
	admins []usuario.Usuario
	err    error
}

func (f *fakeBuscadorAdmins) ListarAdminsAtivos(db *gorm.DB) ([]usuario.Usuario, error) {
	return f.admins, f.err
}

type fakeRepository struct {
	criados []Notificacao
	erro    error
}

func (f *fakeRepository) CriarLote(db *gorm.DB, notificacoes []Notificacao) error {
	if f.erro != nil {
		return f.erro
	}
	f.criados = append(f.criados, notificacoes...)
	return nil
}

func (f *fakeRepository) ListarPorDestinatario(db *gorm.DB, destinatarioID uint) ([]Notificacao, error) {
	return nil, nil
}

func (f *fakeRepository) MarcarLida(db *gorm.DB, id, destinatarioID uint) error {
	return nil
}

func novoFanout(busca BuscadorAdmins, repo Repository) *Fanout {
	return &Fanout{Usuarios: busca, Repo: repo, Log: zerolog.Nop()}
}

func TestNotificarEntregaEnviadaAtingeTodosOsAdminsAtivos(t *testing.T) {
	admins := []usuario.Usuario{
		{ID: 1, Role: escopo.RoleAdmin, Status: usuario.StatusAtivo, Ativo: true},
		{ID: 2, Role: escopo.RoleAdmin, Status: usuario.StatusAtivo, Ativo: true},
	}
	repo := &fakeRepository{}
	f := novoFanout(&fakeBuscadorAdmins{admins: admins}, repo)

	entregaID := uint(7)
	f.Notificar(Evento{Tipo: TipoEntregaEnviada, Titulo: "Entrega enviada", EntregaID: &entregaID})

	if len(repo.criados) != 2 {
		t.Fatalf("esperava 1 notificação por admin (2), gravou %d", len(repo.criados))
	}
	vistos := map[uint]bool{}
	for _, n := range repo.criados {
		if n.Tipo != TipoEntregaEnviada {
			t.Errorf("tipo inesperado %q", n.Tipo)
		}
		if n.Lida {
			t.Error("notificação deveria nascer não lida")
		}
		if vistos[n.DestinatarioID] {
			t.Errorf("destinatário %d duplicado", n.DestinatarioID)
		}
		vistos[n.DestinatarioID] = true
	}
}

func TestNotificarEventosDirigidosAoPrestador(t *testing.T) {
	for _, tipo := range []string{TipoEntregaAprovada, TipoAjustesSolicitados} {
		repo := &fakeRepository{}
		f := novoFanout(&fakeBuscadorAdmins{}, repo)

		f.Notificar(Evento{Tipo: tipo, Titulo: "t", PrestadorID: 42})

		if len(repo.criados) != 1 {
			t.Fatalf("%s: esperava 1 notificação, gravou %d", tipo, len(repo.criados))
		}
		if repo.criados[0].DestinatarioID != 42 {
			t.Errorf("%s: destinatário %d, esperava o prestador 42", tipo, repo.criados[0].DestinatarioID)
		}
	}
}

// Falha na gravação do lote é degradação, nunca pânico nem propagação: a
// mutação que originou o evento já foi reportada como sucesso ao usuário.
func TestNotificarToleraFalhaDeEscrita(t *testing.T) {
	repo := &fakeRepository{erro: errors.New("quota excedida")}
	f := novoFanout(&fakeBuscadorAdmins{admins: []usuario.Usuario{{ID: 1}}}, repo)

	f.Notificar(Evento{Tipo: TipoEntregaEnviada, Titulo: "t"})

	if len(repo.criados) != 0 {
		t.Fatal("nada deveria ter sido gravado")
	}
}

func TestNotificarToleraFalhaAoResolverDestinatarios(t *testing.T) {
	repo := &fakeRepository{}
	f := novoFanout(&fakeBuscadorAdmins{err: errors.New("store fora do ar")}, repo)

	f.Notificar(Evento{Tipo: TipoNovoComentario, Titulo: "t"})

	if len(repo.criados) != 0 {
		t.Fatal("nada deveria ter sido gravado")
	}
}

func TestTipoDesconhecidoNaoGeraNotificacao(t *testing.T) {
	repo := &fakeRepository{}
	f := novoFanout(&fakeBuscadorAdmins{admins: []usuario.Usuario{{ID: 1}}}, repo)

	f.Notificar(Evento{Tipo: "INEXISTENTE", Titulo: "t"})

	if len(repo.criados) != 0 {
		t.Fatalf("tipo desconhecido gravou %d notificações", len(repo.criados))
	}
}
