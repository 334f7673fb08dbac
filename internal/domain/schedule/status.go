package schedule

// ===============================
// Máquina de estados do agendamento
// ===============================

type Status string

const (
	StatusPending   Status = "pendente"
	StatusConfirmed Status = "confirmado"
	StatusCancelled Status = "cancelado"
	StatusCompleted Status = "concluido"
	StatusNoShow    Status = "nao_compareceu"
)

type Actor string

const (
	ActorClient        Actor = "cliente"
	ActorEstablishment Actor = "estabelecimento"
)

// Terminal: nenhuma transição sai destes estados.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// InitialStatus devolve o estado inicial conforme a política.
func InitialStatus(autoConfirm bool) Status {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// CanTransition valida uma transição de estado para o ator informado.
// Retorna nil quando permitida. A janela de cancelamento do cliente é
// verificada à parte (CheckCancellation); o gate temporal de
// concluido/nao_compareceu é responsabilidade do caso de uso.
func CanTransition(from, to Status, actor Actor) *Rejection {
	if from.Terminal() {
		return rejectWith(ReasonInvalidTransition, "status", string(from))
	}

	switch to {
	case StatusConfirmed:
		if actor != ActorEstablishment {
			return reject(ReasonNotPermitted)
		}
		if from != StatusPending {
			return rejectWith(ReasonInvalidTransition, "status", string(from))
		}
		return nil

	case StatusCancelled:
		// pendente|confirmado → cancelado, cliente ou estabelecimento
		return nil

	case StatusCompleted, StatusNoShow:
		if actor != ActorEstablishment {
			return reject(ReasonNotPermitted)
		}
		return nil
	}

	return rejectWith(ReasonInvalidTransition, "status", string(to))
}
