package schedule

import "fmt"

// ===============================
// Motivos de Rejeição
// ===============================

type Reason string

const (
	ReasonNotFound                 Reason = "not_found"
	ReasonLeadTimeViolation        Reason = "lead_time_violation"
	ReasonClosed                   Reason = "closed"
	ReasonInvalidSlot              Reason = "invalid_slot"
	ReasonSlotTaken                Reason = "slot_taken"
	ReasonLimitReached             Reason = "limit_reached"
	ReasonNotReschedulable         Reason = "not_reschedulable"
	ReasonNotPermitted             Reason = "not_permitted"
	ReasonCancellationWindowClosed Reason = "cancellation_window_closed"
	ReasonInvalidTransition        Reason = "invalid_transition"
	ReasonBusy                     Reason = "busy"
)

// Rejection é o resultado negativo de uma decisão da engine. É a única
// forma de erro de negócio que a engine produz; qualquer outro erro é
// falha de infraestrutura e deve ser tratado como tal pelo chamador.
type Rejection struct {
	Reason Reason

	// Campo da política que motivou a rejeição e o limite calculado,
	// para mensagens precisas ao usuário.
	Field    string
	Boundary string
}

func (r *Rejection) Error() string {
	if r.Field != "" {
		return fmt.Sprintf("%s (%s=%s)", r.Reason, r.Field, r.Boundary)
	}
	return string(r.Reason)
}

func reject(reason Reason) *Rejection {
	return &Rejection{Reason: reason}
}

func rejectWith(reason Reason, field, boundary string) *Rejection {
	return &Rejection{Reason: reason, Field: field, Boundary: boundary}
}

// AsRejection desembrulha um erro de negócio da engine; retorna nil para
// erros de infraestrutura.
func AsRejection(err error) *Rejection {
	if r, ok := err.(*Rejection); ok {
		return r
	}
	return nil
}
