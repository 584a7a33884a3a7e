package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"yatra/internal/domain/offering"
)

// OfferingStoreForManage defines the store interface needed by offering management.
type OfferingStoreForManage interface {
	Save(ctx context.Context, o offering.Offering) error
	GetByID(ctx context.Context, id string) (offering.Offering, error)
}

// OfferingForm carries the organizer-editable fields of an offering.
type OfferingForm struct {
	Title                    string
	ImageURL                 string
	DisplayDate              string
	Location                 string
	Duration                 string
	Eligibility              string
	Description              string
	TicketPriceText          string
	AdvancePaymentPercentage float64
	Trains                   []offering.TrainOffering
	Packages                 []offering.PackageOffering
	AddOns                   []offering.AddOnOffering
}

// CreateOfferingDeps holds dependencies for CreateOffering.
type CreateOfferingDeps struct {
	OfferingStore OfferingStoreForManage
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteCreateOffering creates a new offering in draft status.
// PRE: Form carries a non-empty title
// POST: Offering saved with Status=draft; returns new ID
func ExecuteCreateOffering(ctx context.Context, form OfferingForm, deps CreateOfferingDeps) (string, error) {
	o := offering.Offering{
		ID:        deps.GenerateID(),
		Status:    offering.StatusDraft,
		CreatedAt: deps.Now(),
	}
	applyForm(&o, form)

	if err := o.Validate(); err != nil {
		return "", err
	}
	if err := deps.OfferingStore.Save(ctx, o); err != nil {
		return "", err
	}

	slog.Info("offering_event", "event", "offering_created", "offering_id", o.ID, "title", o.Title)
	return o.ID, nil
}

// UpdateOfferingInput carries input for UpdateOffering.
type UpdateOfferingInput struct {
	OfferingID string
	Form       OfferingForm
}

// ExecuteUpdateOffering replaces the editable fields of an existing offering.
// Status and creation time are never touched by an update.
// PRE: OfferingID exists
// POST: Offering saved with form fields applied
func ExecuteUpdateOffering(ctx context.Context, input UpdateOfferingInput, deps CreateOfferingDeps) error {
	o, err := deps.OfferingStore.GetByID(ctx, input.OfferingID)
	if err != nil {
		return err
	}
	applyForm(&o, input.Form)

	if err := o.Validate(); err != nil {
		return err
	}
	if err := deps.OfferingStore.Save(ctx, o); err != nil {
		return err
	}

	slog.Info("offering_event", "event", "offering_updated", "offering_id", o.ID)
	return nil
}

// PublishOfferingInput carries input for PublishOffering.
type PublishOfferingInput struct {
	OfferingID string
}

// ExecutePublishOffering opens an offering for registration.
// PRE: OfferingID exists and is not already published
// POST: Offering status is published
func ExecutePublishOffering(ctx context.Context, input PublishOfferingInput, deps CreateOfferingDeps) error {
	o, err := deps.OfferingStore.GetByID(ctx, input.OfferingID)
	if err != nil {
		return err
	}
	if err := o.Publish(); err != nil {
		return err
	}
	if err := deps.OfferingStore.Save(ctx, o); err != nil {
		return err
	}

	slog.Info("offering_event", "event", "offering_published", "offering_id", o.ID)
	return nil
}

// CloseOfferingInput carries input for CloseOffering.
type CloseOfferingInput struct {
	OfferingID string
}

// ExecuteCloseOffering stops further registrations against an offering.
// PRE: OfferingID exists and is published
// POST: Offering status is closed
func ExecuteCloseOffering(ctx context.Context, input CloseOfferingInput, deps CreateOfferingDeps) error {
	o, err := deps.OfferingStore.GetByID(ctx, input.OfferingID)
	if err != nil {
		return err
	}
	if err := o.Close(); err != nil {
		return err
	}
	if err := deps.OfferingStore.Save(ctx, o); err != nil {
		return err
	}

	slog.Info("offering_event", "event", "offering_closed", "offering_id", o.ID)
	return nil
}

// applyForm copies the editable fields onto the offering.
func applyForm(o *offering.Offering, form OfferingForm) {
	o.Title = form.Title
	o.ImageURL = form.ImageURL
	o.DisplayDate = form.DisplayDate
	o.Location = form.Location
	o.Duration = form.Duration
	o.Eligibility = form.Eligibility
	o.Description = form.Description
	o.TicketPriceText = form.TicketPriceText
	o.AdvancePaymentPercentage = offering.Rupees(form.AdvancePaymentPercentage)
	o.Trains = form.Trains
	o.Packages = form.Packages
	o.AddOns = form.AddOns
}
