package handlers

import (
	"github.com/agendaai/agenda-api/internal/audit"
)

// writeAudit enfileira o evento no dispatcher assíncrono. Auditoria nunca
// derruba a requisição: dispatcher nulo (testes) é silenciosamente ignorado.
func writeAudit(
	d *audit.Dispatcher,
	establishmentID uint,
	userID *uint,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	if d == nil {
		return
	}

	d.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          userID,
		Action:          action,
		Entity:          entity,
		EntityID:        entityID,
		Metadata:        meta,
	})
}
