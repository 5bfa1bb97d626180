package notificacao

import (
	"strings"
	"testing"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	nome := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+nome+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Notificacao{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// O campo lida só anda de false para true; marcar de novo é um no-op.
func TestMarcarLidaEhMonotonico(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository()

	n := Notificacao{DestinatarioID: 5, Tipo: TipoEntregaAprovada, Titulo: "t"}
	if err := db.Create(&n).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.MarcarLida(db, n.ID, 5); err != nil {
		t.Fatalf("marcar lida: %v", err)
	}
	if err := repo.MarcarLida(db, n.ID, 5); err != nil {
		t.Fatalf("segunda marcação deveria ser no-op: %v", err)
	}

	var lida Notificacao
	if err := db.First(&lida, n.ID).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if !lida.Lida {
		t.Fatal("lida regrediu para false")
	}
}

func TestMarcarLidaDeOutroDestinatario(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository()

	n := Notificacao{DestinatarioID: 5, Tipo: TipoNovoComentario, Titulo: "t"}
	if err := db.Create(&n).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := repo.MarcarLida(db, n.ID, 99)
	if !apperrors.EhCodigo(err, apperrors.CodigoNaoEncontrado) {
		t.Fatalf("notificação alheia deveria ser NAO_ENCONTRADO, erro: %v", err)
	}
}

func TestListarPorDestinatarioMaisRecentesPrimeiro(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository()

	lote := []Notificacao{
		{DestinatarioID: 1, Tipo: TipoEntregaEnviada, Titulo: "a"},
		{DestinatarioID: 1, Tipo: TipoEntregaEnviada, Titulo: "b"},
		{DestinatarioID: 2, Tipo: TipoEntregaEnviada, Titulo: "c"},
	}
	if err := repo.CriarLote(db, lote); err != nil {
		t.Fatalf("criar lote: %v", err)
	}

	lista, err := repo.ListarPorDestinatario(db, 1)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(lista) != 2 {
		t.Fatalf("esperava 2 notificações do destinatário 1, veio %d", len(lista))
	}
	for _, n := range lista {
		if n.DestinatarioID != 1 {
			t.Errorf("notificação de outro destinatário vazou: %d", n.DestinatarioID)
		}
	}
}
