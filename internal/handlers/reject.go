package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/httperr"
)

// ======================================================
// REJEIÇÕES DO MOTOR → HTTP
// ======================================================

// Mensagens voltadas ao cliente final; o código vai no corpo para o front
// tratar caso a caso.
var rejectionMessages = map[domain.Reason]string{
	domain.ReasonNotFound:                 "Registro não encontrado.",
	domain.ReasonLeadTimeViolation:        "O horário escolhido não respeita a antecedência mínima.",
	domain.ReasonClosed:                   "O estabelecimento não atende nesse dia.",
	domain.ReasonInvalidSlot:              "Horário inválido para a agenda do dia.",
	domain.ReasonSlotTaken:                "Esse horário acabou de ser ocupado. Escolha outro.",
	domain.ReasonLimitReached:             "Limite de agendamentos simultâneos atingido nesse horário.",
	domain.ReasonNotReschedulable:         "Esse agendamento não pode mais ser remarcado.",
	domain.ReasonNotPermitted:             "Ação não permitida para esse usuário.",
	domain.ReasonCancellationWindowClosed: "O prazo para cancelamento já passou.",
	domain.ReasonInvalidTransition:        "Mudança de status inválida para o agendamento.",
	domain.ReasonBusy:                     "Agenda ocupada no momento. Tente novamente.",
}

func rejectionStatus(r domain.Reason) int {
	switch r {
	case domain.ReasonNotFound:
		return http.StatusNotFound
	case domain.ReasonSlotTaken, domain.ReasonLimitReached, domain.ReasonInvalidTransition:
		return http.StatusConflict
	case domain.ReasonNotPermitted:
		return http.StatusForbidden
	case domain.ReasonBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

// writeError converte erros dos casos de uso em resposta HTTP. Rejeições do
// motor viram o status/mensagem da tabela acima; o resto é erro interno.
func writeError(c *gin.Context, err error) {
	if rej := domain.AsRejection(err); rej != nil {
		msg, ok := rejectionMessages[rej.Reason]
		if !ok {
			msg = "Não foi possível concluir a operação."
		}
		httperr.Write(c, rejectionStatus(rej.Reason), string(rej.Reason), msg)
		return
	}

	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}
