package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Codigo identifica a categoria de erro exposta na API.
type Codigo string

const (
	CodigoValidacao         Codigo = "VALIDACAO"
	CodigoTransicaoNegada   Codigo = "TRANSICAO_NEGADA"
	CodigoAcessoNegado      Codigo = "ACESSO_NEGADO"
	CodigoNaoEncontrado     Codigo = "NAO_ENCONTRADO"
	CodigoStoreIndisponivel Codigo = "STORE_INDISPONIVEL"
	CodigoCascataParcial    Codigo = "CASCATA_PARCIAL"
)

var statusPorCodigo = map[Codigo]int{
	CodigoValidacao:         http.StatusBadRequest,
	CodigoTransicaoNegada:   http.StatusConflict,
	CodigoAcessoNegado:      http.StatusForbidden,
	CodigoNaoEncontrado:     http.StatusNotFound,
	CodigoStoreIndisponivel: http.StatusServiceUnavailable,
	CodigoCascataParcial:    http.StatusOK,
}

// Erro carrega o código e uma mensagem legível para o usuário final.
type Erro struct {
	Codigo   Codigo
	Mensagem string
	causa    error
}

func (e *Erro) Error() string {
	if e.causa != nil {
		return e.Mensagem + ": " + e.causa.Error()
	}
	return e.Mensagem
}

func (e *Erro) Unwrap() error { return e.causa }

func Novo(codigo Codigo, mensagem string) *Erro {
	return &Erro{Codigo: codigo, Mensagem: mensagem}
}

func Envolver(codigo Codigo, causa error, mensagem string) *Erro {
	return &Erro{Codigo: codigo, Mensagem: mensagem, causa: causa}
}

func Validacao(mensagem string) *Erro       { return Novo(CodigoValidacao, mensagem) }
func TransicaoNegada(mensagem string) *Erro { return Novo(CodigoTransicaoNegada, mensagem) }
func AcessoNegado(mensagem string) *Erro    { return Novo(CodigoAcessoNegado, mensagem) }
func NaoEncontrado(mensagem string) *Erro   { return Novo(CodigoNaoEncontrado, mensagem) }

func StoreIndisponivel(causa error, mensagem string) *Erro {
	return Envolver(CodigoStoreIndisponivel, causa, mensagem)
}

// Como extrai o *Erro tipado da cadeia, ou nil se não houver.
func Como(err error) *Erro {
	var e *Erro
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func EhCodigo(err error, codigo Codigo) bool {
	e := Como(err)
	return e != nil && e.Codigo == codigo
}

type corpoErro struct {
	Erro struct {
		Codigo   string `json:"codigo"`
		Mensagem string `json:"mensagem"`
	} `json:"erro"`
}

// Escrever serializa o erro como JSON com o status HTTP do código.
// Erros não tipados viram STORE_INDISPONIVEL genérico, sem vazar detalhes.
func Escrever(w http.ResponseWriter, log zerolog.Logger, err error) {
	tipado := Como(err)
	if tipado == nil {
		log.Error().Err(err).Msg("erro inesperado")
		tipado = StoreIndisponivel(nil, "falha ao acessar o armazenamento")
	}

	status, ok := statusPorCodigo[tipado.Codigo]
	if !ok {
		status = http.StatusInternalServerError
	}

	var corpo corpoErro
	corpo.Erro.Codigo = string(tipado.Codigo)
	corpo.Erro.Mensagem = tipado.Mensagem

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(corpo)
}
