package schedule

import (
	"context"
	"time"

	"github.com/agendaai/agenda-api/internal/models"
)

// Repository é o colaborador de persistência da engine. Métodos de leitura
// de entidade devolvem (nil, nil) quando o registro não existe; erro só
// para falha de infraestrutura.
type Repository interface {
	// -------- Estabelecimento --------
	GetEstablishmentByID(
		ctx context.Context,
		id uint,
	) (*models.Establishment, error)

	GetEstablishmentBySlug(
		ctx context.Context,
		slug string,
	) (*models.Establishment, error)

	// -------- Política (singleton, criada no primeiro acesso) --------
	GetOrCreatePolicy(
		ctx context.Context,
		establishmentID uint,
	) (*models.SchedulePolicy, error)

	// -------- Serviço / Profissional --------
	GetService(
		ctx context.Context,
		establishmentID uint,
		serviceID uint,
	) (*models.Service, error)

	GetProfessional(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
	) (*models.Professional, error)

	// -------- Cliente --------
	GetOrCreateClient(
		ctx context.Context,
		establishmentID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Ocupação --------

	// ListDayBookings devolve os agendamentos não-cancelados do
	// estabelecimento no intervalo [dayStart, dayEnd), ordenados por início.
	ListDayBookings(
		ctx context.Context,
		establishmentID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]Booked, error)

	// -------- Escrita de agendamento --------

	// CreateAppointmentGuarded refaz a checagem de conflito e de limite
	// simultâneo com lock de linha dentro de uma transação e persiste.
	// Retorna *Rejection (SlotTaken/LimitReached) quando a recheck falha.
	CreateAppointmentGuarded(
		ctx context.Context,
		ap *models.Appointment,
		buffer time.Duration,
		maxConcurrent int,
	) error

	// SaveAppointmentGuarded é a variante de remarcação: mesma recheck,
	// excluindo o próprio agendamento.
	SaveAppointmentGuarded(
		ctx context.Context,
		ap *models.Appointment,
		buffer time.Duration,
		maxConcurrent int,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		establishmentID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		establishmentID uint,
		professionalID uint, // 0 = todos
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
