package entrega

import (
	"testing"
	"time"
)

func TestStatusEfetivoDerivaAtraso(t *testing.T) {
	agora := time.Now()
	ontem := agora.Add(-24 * time.Hour)
	amanha := agora.Add(24 * time.Hour)

	casos := []struct {
		nome     string
		status   string
		prazo    time.Time
		esperado string
	}{
		{"pendente no prazo", StatusPendente, amanha, StatusPendente},
		{"pendente vencida", StatusPendente, ontem, StatusAtrasado},
		{"em revisão vencida", StatusRevisao, ontem, StatusAtrasado},
		{"ajustes vencida", StatusAjustes, ontem, StatusAtrasado},
		{"aprovada vencida nunca atrasa", StatusAprovado, ontem, StatusAprovado},
	}

	for _, c := range casos {
		e := Entrega{Status: c.status, Prazo: c.prazo}
		if got := e.StatusEfetivo(agora); got != c.esperado {
			t.Errorf("%s: esperava %s, veio %s", c.nome, c.esperado, got)
		}
	}
}
