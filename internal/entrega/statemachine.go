package entrega

import (
	"fmt"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/NorteEngenharia/api-prestador/internal/escopo"
)

// transicoes é a tabela papel -> estado de origem -> destinos permitidos.
// APROVADO é terminal: não aparece como origem para nenhum papel.
var transicoes = map[string]map[string][]string{
	escopo.RolePrestador: {
		StatusPendente: {StatusRevisao},
		StatusAjustes:  {StatusRevisao},
	},
	escopo.RoleAdmin: {
		StatusRevisao: {StatusAprovado, StatusAjustes},
	},
}

// MaquinaEstados valida transições de status de entrega. A mesma tabela
// alimenta a habilitação de ações no cliente e a autorização no servidor.
type MaquinaEstados struct {
	// Exige ao menos um anexo registrado antes do envio para revisão.
	ExigirAnexoParaRevisao bool
}

// Validar decide se o papel pode levar a entrega do estado atual ao
// solicitado. Viola a tabela ou a precondição => TRANSICAO_NEGADA com a
// regra não atendida nomeada.
func (m MaquinaEstados) Validar(role, de, para string, temAnexo bool) error {
	destinos, ok := transicoes[role][de]
	if !ok || !contem(destinos, para) {
		return apperrors.TransicaoNegada(
			fmt.Sprintf("transição de %s para %s não permitida para o papel %s", de, para, role))
	}
	if para == StatusRevisao && m.ExigirAnexoParaRevisao && !temAnexo {
		return apperrors.TransicaoNegada(
			"anexe ao menos uma referência de arquivo antes de enviar para revisão")
	}
	return nil
}

// AcoesPermitidas lista os destinos que o papel pode solicitar a partir do
// estado atual.
func (m MaquinaEstados) AcoesPermitidas(role, de string) []string {
	destinos := transicoes[role][de]
	out := make([]string, len(destinos))
	copy(out, destinos)
	return out
}

func contem(lista []string, valor string) bool {
	for _, v := range lista {
		if v == valor {
			return true
		}
	}
	return false
}
