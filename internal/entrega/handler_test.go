package entrega

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
	"github.com/NorteEngenharia/api-prestador/internal/notificacao"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func novoHandlerDeTeste(t *testing.T, db *gorm.DB) *Handler {
	t.Helper()
	fanout := notificacao.NewFanout(db, usuario.NewRepository(), zerolog.Nop())
	maquina := MaquinaEstados{ExigirAnexoParaRevisao: true}
	return NewHandler(db, fanout, maquina, zerolog.Nop())
}

func criarAdminsAtivos(t *testing.T, db *gorm.DB, total int) []usuario.Usuario {
	t.Helper()
	admins := make([]usuario.Usuario, 0, total)
	for i := 0; i < total; i++ {
		a := usuario.Usuario{
			Email:  "admin" + string(rune('a'+i)) + "@norte.com",
			Nome:   "Admin",
			Role:   escopo.RoleAdmin,
			Status: usuario.StatusAtivo,
			Ativo:  true,
		}
		if err := db.Create(&a).Error; err != nil {
			t.Fatalf("seed admin: %v", err)
		}
		admins = append(admins, a)
	}
	return admins
}

func requisicaoStatus(t *testing.T, perfil escopo.Perfil, entregaID uint, novoStatus string) *http.Request {
	t.Helper()
	corpo, _ := json.Marshal(AtualizarStatusRequest{Status: novoStatus})
	req := httptest.NewRequest(http.MethodPut, "/entregas/1/status", bytes.NewReader(corpo))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(int(entregaID))})

	ctx := context.WithValue(req.Context(), auth.CtxUsuarioID, perfil.ID)
	ctx = context.WithValue(ctx, auth.CtxRole, perfil.Role)
	return req.WithContext(ctx)
}

// Prestador envia a entrega para revisão: status persiste e cada admin
// ativo recebe exatamente uma notificação de envio.
func TestEnviarParaRevisaoNotificaAdmins(t *testing.T) {
	db := newTestDB(t)
	admins := criarAdminsAtivos(t, db, 2)
	_, prestador := seedProjetoComEntregas(t, db, 1)
	h := novoHandlerDeTeste(t, db)

	var e Entrega
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("carregar entrega: %v", err)
	}

	rec := httptest.NewRecorder()
	h.AtualizarStatus(rec, requisicaoStatus(t, escopo.Perfil{ID: prestador.ID, Role: escopo.RolePrestador}, e.ID, StatusRevisao))

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", rec.Code, rec.Body.String())
	}

	var relida Entrega
	if err := db.First(&relida, e.ID).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if relida.Status != StatusRevisao {
		t.Fatalf("status deveria ser REVISAO, veio %s", relida.Status)
	}

	var notas []notificacao.Notificacao
	if err := db.Where("tipo = ?", notificacao.TipoEntregaEnviada).Find(&notas).Error; err != nil {
		t.Fatalf("listar notificações: %v", err)
	}
	if len(notas) != len(admins) {
		t.Fatalf("esperava %d notificações, veio %d", len(admins), len(notas))
	}
	porAdmin := map[uint]int{}
	for _, n := range notas {
		porAdmin[n.DestinatarioID]++
	}
	for _, a := range admins {
		if porAdmin[a.ID] != 1 {
			t.Errorf("admin %d deveria ter exatamente 1 notificação, tem %d", a.ID, porAdmin[a.ID])
		}
	}
}

func TestEnviarParaRevisaoSemAnexoEhNegado(t *testing.T) {
	db := newTestDB(t)
	criarAdminsAtivos(t, db, 1)
	p, prestador := seedProjetoComEntregas(t, db, 1)
	h := novoHandlerDeTeste(t, db)

	semAnexo := Entrega{
		ProjetoID:   p.ID,
		Titulo:      "Sem anexo",
		Prazo:       time.Now().Add(24 * time.Hour),
		Status:      StatusPendente,
		Prioridade:  PrioridadeBaixa,
		PrestadorID: prestador.ID,
	}
	if err := db.Create(&semAnexo).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.AtualizarStatus(rec, requisicaoStatus(t, escopo.Perfil{ID: prestador.ID, Role: escopo.RolePrestador}, semAnexo.ID, StatusRevisao))

	if rec.Code != http.StatusConflict {
		t.Fatalf("esperava 409, veio %d: %s", rec.Code, rec.Body.String())
	}

	var relida Entrega
	if err := db.First(&relida, semAnexo.ID).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if relida.Status != StatusPendente {
		t.Fatalf("status não podia mudar, veio %s", relida.Status)
	}
}

// Admin aprova a entrega em revisão; o prestador é notificado e APROVADO
// vira estado terminal para ele.
func TestAprovarNotificaPrestadorETerminaCiclo(t *testing.T) {
	db := newTestDB(t)
	admins := criarAdminsAtivos(t, db, 1)
	_, prestador := seedProjetoComEntregas(t, db, 1)
	h := novoHandlerDeTeste(t, db)

	var e Entrega
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("carregar entrega: %v", err)
	}
	if err := db.Model(&e).Update("status", StatusRevisao).Error; err != nil {
		t.Fatalf("preparar revisão: %v", err)
	}

	rec := httptest.NewRecorder()
	h.AtualizarStatus(rec, requisicaoStatus(t, escopo.Perfil{ID: admins[0].ID, Role: escopo.RoleAdmin}, e.ID, StatusAprovado))
	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", rec.Code, rec.Body.String())
	}

	var notas []notificacao.Notificacao
	if err := db.Where("tipo = ?", notificacao.TipoEntregaAprovada).Find(&notas).Error; err != nil {
		t.Fatalf("listar notificações: %v", err)
	}
	if len(notas) != 1 || notas[0].DestinatarioID != prestador.ID {
		t.Fatalf("esperava 1 notificação para o prestador %d, veio %+v", prestador.ID, notas)
	}

	// Entrega aprovada não volta para revisão.
	rec = httptest.NewRecorder()
	h.AtualizarStatus(rec, requisicaoStatus(t, escopo.Perfil{ID: prestador.ID, Role: escopo.RolePrestador}, e.ID, StatusRevisao))
	if rec.Code != http.StatusConflict {
		t.Fatalf("esperava 409, veio %d: %s", rec.Code, rec.Body.String())
	}

	var relida Entrega
	if err := db.First(&relida, e.ID).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if relida.Status != StatusAprovado {
		t.Fatalf("status terminal deveria permanecer APROVADO, veio %s", relida.Status)
	}
}

// Criar entrega com prestador fora do projeto falha antes de qualquer escrita.
func TestCriarExigePrestadorMembroDoProjeto(t *testing.T) {
	db := newTestDB(t)
	admins := criarAdminsAtivos(t, db, 1)
	p, _ := seedProjetoComEntregas(t, db, 0)
	h := novoHandlerDeTeste(t, db)

	intruso := usuario.Usuario{Email: "fora@norte.com", Nome: "Fora", Role: escopo.RolePrestador, Status: usuario.StatusAtivo, Ativo: true}
	if err := db.Create(&intruso).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	corpo, _ := json.Marshal(CriarEntregaRequest{
		ProjetoID:   p.ID,
		Titulo:      "Indevida",
		Prazo:       "2026-10-01",
		Prioridade:  PrioridadeAlta,
		PrestadorID: intruso.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/entregas", bytes.NewReader(corpo))
	ctx := context.WithValue(req.Context(), auth.CtxUsuarioID, admins[0].ID)
	ctx = context.WithValue(ctx, auth.CtxRole, escopo.RoleAdmin)

	rec := httptest.NewRecorder()
	h.Criar(rec, req.WithContext(ctx))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d: %s", rec.Code, rec.Body.String())
	}

	var total int64
	if err := db.Model(&Entrega{}).Count(&total).Error; err != nil {
		t.Fatalf("contar: %v", err)
	}
	if total != 0 {
		t.Fatalf("nenhuma entrega deveria ter sido gravada, há %d", total)
	}
}

// Repetir a exclusão de uma entrega devolve 200 nas duas chamadas; a
// segunda é um no-op sem avisos.
func TestDeletarEntregaRepetidaEhNoOp(t *testing.T) {
	db := newTestDB(t)
	admins := criarAdminsAtivos(t, db, 1)
	seedProjetoComEntregas(t, db, 1)
	h := novoHandlerDeTeste(t, db)

	var e Entrega
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("carregar entrega: %v", err)
	}

	requisicao := func() *http.Request {
		req := httptest.NewRequest(http.MethodDelete, "/entregas/1", nil)
		req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(int(e.ID))})
		ctx := context.WithValue(req.Context(), auth.CtxUsuarioID, admins[0].ID)
		ctx = context.WithValue(ctx, auth.CtxRole, escopo.RoleAdmin)
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	h.Deletar(rec, requisicao())
	if rec.Code != http.StatusOK {
		t.Fatalf("primeira exclusão: esperava 200, veio %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Deletar(rec, requisicao())
	if rec.Code != http.StatusOK {
		t.Fatalf("segunda exclusão deveria ser no-op de sucesso, veio %d: %s", rec.Code, rec.Body.String())
	}
	var resultado DeleteResultDTO
	if err := json.NewDecoder(rec.Body).Decode(&resultado); err != nil {
		t.Fatalf("decodificar resposta: %v", err)
	}
	if len(resultado.Avisos) != 0 {
		t.Fatalf("no-op não gera avisos, veio %v", resultado.Avisos)
	}

	var excluida Entrega
	if err := db.Unscoped().First(&excluida, e.ID).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if !excluida.DeletedAt.Valid {
		t.Fatal("entrega deveria permanecer marcada como excluída")
	}
}

// Prestador não alcança entrega de outro prestador nem pela rota de status.
func TestStatusForaDoEscopoEhNaoEncontrado(t *testing.T) {
	db := newTestDB(t)
	criarAdminsAtivos(t, db, 1)
	_, _ = seedProjetoComEntregas(t, db, 1)
	h := novoHandlerDeTeste(t, db)

	var e Entrega
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("carregar entrega: %v", err)
	}

	rec := httptest.NewRecorder()
	h.AtualizarStatus(rec, requisicaoStatus(t, escopo.Perfil{ID: e.PrestadorID + 100, Role: escopo.RolePrestador}, e.ID, StatusRevisao))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("esperava 404, veio %d: %s", rec.Code, rec.Body.String())
	}
}
