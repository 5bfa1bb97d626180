package projeto

// request DTOs
type CriarProjetoRequest struct {
	Cliente    string `json:"cliente" validate:"required"`
	Nome       string `json:"nome" validate:"required"`
	Descricao  string `json:"descricao"`
	Link       string `json:"link" validate:"omitempty,url"`
	MembroIDs  []uint `json:"membroIds"`
	Status     string `json:"status" validate:"omitempty,oneof=EM_ANDAMENTO CONCLUIDO PAUSADO CANCELADO"`
	Percentual int    `json:"percentualConclusao" validate:"gte=0,lte=100"`
}

type AtualizarProjetoRequest struct {
	Cliente    string  `json:"cliente" validate:"required"`
	Nome       string  `json:"nome" validate:"required"`
	Descricao  string  `json:"descricao"`
	Link       string  `json:"link" validate:"omitempty,url"`
	MembroIDs  *[]uint `json:"membroIds"`
	Status     string  `json:"status" validate:"required,oneof=EM_ANDAMENTO CONCLUIDO PAUSADO CANCELADO"`
	Percentual int     `json:"percentualConclusao" validate:"gte=0,lte=100"`
}

// DeleteResultDTO acompanha a exclusão em cascata: avisos listam as etapas
// que falharam sem impedir a exclusão do projeto em si. Codigo carrega
// CASCATA_PARCIAL quando houve aviso.
type DeleteResultDTO struct {
	Mensagem string   `json:"mensagem"`
	Codigo   string   `json:"codigo,omitempty"`
	Avisos   []string `json:"avisos,omitempty"`
}
