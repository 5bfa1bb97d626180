package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/NorteEngenharia/api-prestador/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var validar = validator.New()

// ValidarStruct checa forma e campos obrigatórios de um DTO de requisição.
// Regras de negócio não entram aqui.
func ValidarStruct(s any) error {
	err := validar.Struct(s)
	if err == nil {
		return nil
	}

	var invalidos validator.ValidationErrors
	if !errors.As(err, &invalidos) {
		return apperrors.Validacao("payload inválido")
	}

	campos := make([]string, 0, len(invalidos))
	for _, fe := range invalidos {
		campos = append(campos, fe.Field())
	}
	return apperrors.Validacao("campos inválidos ou ausentes: " + strings.Join(campos, ", "))
}

// ResponderJSON escreve a resposta de sucesso padrão dos handlers.
func ResponderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
