package entrega

import "time"

// request DTOs
type CriarEntregaRequest struct {
	ProjetoID   uint            `json:"projetoId" validate:"required"`
	Titulo      string          `json:"titulo" validate:"required"`
	Descricao   string          `json:"descricao"`
	Prazo       string          `json:"prazo" validate:"required,datetime=2006-01-02"`
	Prioridade  string          `json:"prioridade" validate:"required,oneof=BAIXA MEDIA ALTA"`
	PrestadorID uint            `json:"prestadorId" validate:"required"`
	Checklist   []ItemChecklist `json:"checklist"`
}

type AtualizarEntregaRequest struct {
	Titulo     string          `json:"titulo" validate:"required"`
	Descricao  string          `json:"descricao"`
	Prazo      string          `json:"prazo" validate:"required,datetime=2006-01-02"`
	Prioridade string          `json:"prioridade" validate:"required,oneof=BAIXA MEDIA ALTA"`
	Checklist  []ItemChecklist `json:"checklist"`
}

type AtualizarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDENTE REVISAO AJUSTES APROVADO"`
}

// DeleteResultDTO acompanha a exclusão em cascata: avisos listam as etapas
// que falharam sem impedir a exclusão da entrega em si. Codigo carrega
// CASCATA_PARCIAL quando houve aviso.
type DeleteResultDTO struct {
	Mensagem string   `json:"mensagem"`
	Codigo   string   `json:"codigo,omitempty"`
	Avisos   []string `json:"avisos,omitempty"`
}

// EntregaDTO acrescenta o estado derivado e as ações que o chamador pode
// solicitar a partir dele.
type EntregaDTO struct {
	Entrega
	StatusEfetivo   string   `json:"statusEfetivo"`
	AcoesPermitidas []string `json:"acoesPermitidas"`
}

func paraDTO(e Entrega, maquina MaquinaEstados, role string, agora time.Time) EntregaDTO {
	return EntregaDTO{
		Entrega:         e,
		StatusEfetivo:   e.StatusEfetivo(agora),
		AcoesPermitidas: maquina.AcoesPermitidas(role, e.Status),
	}
}

func paraDTOs(entregas []Entrega, maquina MaquinaEstados, role string, agora time.Time) []EntregaDTO {
	out := make([]EntregaDTO, 0, len(entregas))
	for _, e := range entregas {
		out = append(out, paraDTO(e, maquina, role, agora))
	}
	return out
}
