package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"yatra/internal/domain/registration"
)

// RegistrationStoreForStatus defines the store interface needed by status updates.
type RegistrationStoreForStatus interface {
	GetByID(ctx context.Context, id string) (registration.Registration, error)
	Save(ctx context.Context, r registration.Registration) error
}

// Status transition actions an organizer can take on a registration.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// ErrUnknownStatusAction signals an unsupported registration status transition.
var ErrUnknownStatusAction = errors.New("action must be 'confirm' or 'cancel'")

// UpdateRegistrationStatusInput carries input for the status orchestrator.
type UpdateRegistrationStatusInput struct {
	RegistrationID string
	Action         string // ActionConfirm or ActionCancel
	ActorEmail     string // organizer performing the change, for the audit log
}

// UpdateRegistrationStatusDeps holds dependencies for UpdateRegistrationStatus.
type UpdateRegistrationStatusDeps struct {
	RegistrationStore RegistrationStoreForStatus
}

// ExecuteUpdateRegistrationStatus confirms or cancels a registration.
// PRE: RegistrationID exists; Action is a known action
// POST: Registration status updated and saved
func ExecuteUpdateRegistrationStatus(ctx context.Context, input UpdateRegistrationStatusInput, deps UpdateRegistrationStatusDeps) (registration.Registration, error) {
	reg, err := deps.RegistrationStore.GetByID(ctx, input.RegistrationID)
	if err != nil {
		return registration.Registration{}, err
	}

	switch input.Action {
	case ActionConfirm:
		err = reg.Confirm()
	case ActionCancel:
		err = reg.Cancel()
	default:
		return registration.Registration{}, ErrUnknownStatusAction
	}
	if err != nil {
		return registration.Registration{}, err
	}

	if err := deps.RegistrationStore.Save(ctx, reg); err != nil {
		return registration.Registration{}, err
	}

	slog.Info("registration_event", "event", "registration_status_changed",
		"registration_id", reg.ID, "status", reg.Status, "actor", input.ActorEmail)
	return reg, nil
}
