package entrega

import (
	"testing"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
)

func TestValidarTransicoesLegais(t *testing.T) {
	m := MaquinaEstados{ExigirAnexoParaRevisao: true}

	casos := []struct {
		role     string
		de, para string
		temAnexo bool
	}{
		{escopo.RolePrestador, StatusPendente, StatusRevisao, true},
		{escopo.RolePrestador, StatusAjustes, StatusRevisao, true},
		{escopo.RoleAdmin, StatusRevisao, StatusAprovado, false},
		{escopo.RoleAdmin, StatusRevisao, StatusAjustes, false},
	}
	for _, c := range casos {
		if err := m.Validar(c.role, c.de, c.para, c.temAnexo); err != nil {
			t.Errorf("%s: %s -> %s deveria ser permitido, erro: %v", c.role, c.de, c.para, err)
		}
	}
}

// Varre todas as triplas (papel, origem, destino) fora da tabela e garante
// que cada uma é negada com TRANSICAO_NEGADA.
func TestValidarTransicoesIlegais(t *testing.T) {
	m := MaquinaEstados{ExigirAnexoParaRevisao: false}

	permitidas := map[[3]string]bool{
		{escopo.RolePrestador, StatusPendente, StatusRevisao}: true,
		{escopo.RolePrestador, StatusAjustes, StatusRevisao}:  true,
		{escopo.RoleAdmin, StatusRevisao, StatusAprovado}:     true,
		{escopo.RoleAdmin, StatusRevisao, StatusAjustes}:      true,
	}

	estados := []string{StatusPendente, StatusRevisao, StatusAjustes, StatusAprovado}
	papeis := []string{escopo.RoleAdmin, escopo.RolePrestador, "DESCONHECIDO"}

	for _, papel := range papeis {
		for _, de := range estados {
			for _, para := range estados {
				if permitidas[[3]string{papel, de, para}] {
					continue
				}
				err := m.Validar(papel, de, para, true)
				if err == nil {
					t.Errorf("%s: %s -> %s deveria ser negado", papel, de, para)
					continue
				}
				if !apperrors.EhCodigo(err, apperrors.CodigoTransicaoNegada) {
					t.Errorf("%s: %s -> %s: código inesperado: %v", papel, de, para, err)
				}
			}
		}
	}
}

func TestAprovadoEhTerminal(t *testing.T) {
	m := MaquinaEstados{}

	for _, papel := range []string{escopo.RoleAdmin, escopo.RolePrestador} {
		if acoes := m.AcoesPermitidas(papel, StatusAprovado); len(acoes) != 0 {
			t.Errorf("%s não deveria ter ações a partir de APROVADO, tem %v", papel, acoes)
		}
	}
}

func TestPrecondicaoDeAnexo(t *testing.T) {
	exigente := MaquinaEstados{ExigirAnexoParaRevisao: true}

	err := exigente.Validar(escopo.RolePrestador, StatusPendente, StatusRevisao, false)
	if !apperrors.EhCodigo(err, apperrors.CodigoTransicaoNegada) {
		t.Fatalf("envio sem anexo deveria ser negado, erro: %v", err)
	}

	// A regra é uma política configurável: desligada, o envio passa sem anexo.
	frouxa := MaquinaEstados{ExigirAnexoParaRevisao: false}
	if err := frouxa.Validar(escopo.RolePrestador, StatusPendente, StatusRevisao, false); err != nil {
		t.Fatalf("política desligada não deveria exigir anexo: %v", err)
	}
}

func TestAcoesPermitidasAlimentamValidar(t *testing.T) {
	m := MaquinaEstados{}

	for _, papel := range []string{escopo.RoleAdmin, escopo.RolePrestador} {
		for _, de := range []string{StatusPendente, StatusRevisao, StatusAjustes, StatusAprovado} {
			for _, para := range m.AcoesPermitidas(papel, de) {
				if err := m.Validar(papel, de, para, true); err != nil {
					t.Errorf("ação anunciada %s: %s -> %s falhou na validação: %v", papel, de, para, err)
				}
			}
		}
	}
}
