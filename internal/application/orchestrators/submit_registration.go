package orchestrators

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	emailAdapter "yatra/internal/adapters/email"
	"yatra/internal/adapters/objectstore"
	"yatra/internal/domain/offering"
	"yatra/internal/domain/registration"
)

// OfferingStoreForSubmit defines the offering store interface needed by SubmitRegistration.
type OfferingStoreForSubmit interface {
	GetByID(ctx context.Context, id string) (offering.Offering, error)
}

// RegistrationStoreForSubmit defines the registration store interface needed by SubmitRegistration.
type RegistrationStoreForSubmit interface {
	Save(ctx context.Context, r registration.Registration) error
}

// Upload is one incoming file from the submission form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// SubmitRegistrationInput carries the parsed submission form.
type SubmitRegistrationInput struct {
	OfferingID string
	Email      string
	Phone      string
	Members    []registration.Member

	SameRoomPreference bool
	WantsTrainBooking  bool
	AccommodationNotes string

	Train   *registration.TrainChoice
	Package *registration.PackageChoice
	AddOns  []registration.AddOnChoice

	TotalAmount           float64
	IsAdvancePayment      bool
	AdvancedPaymentAmount float64

	Suggestions string

	PaymentScreenshot *Upload
	MemberDocuments   []Upload // positionally aligned with Members
}

// SubmitRegistrationDeps holds dependencies for SubmitRegistration.
type SubmitRegistrationDeps struct {
	OfferingStore     OfferingStoreForSubmit
	RegistrationStore RegistrationStoreForSubmit
	Files             objectstore.Store
	EmailSender       emailAdapter.Sender // optional: nil skips confirmation email
	FromAddress       string
	ReplyTo           string
	GenerateID        func() string
	Now               func() time.Time
}

var (
	ErrOfferingNotOpen      = errors.New("offering is not open for registration")
	ErrMissingScreenshot    = errors.New("payment screenshot is required")
	ErrMemberDocumentsCount = errors.New("one identity document is required per member")
)

// ExecuteSubmitRegistration accepts a completed booking for a published
// offering: it stores the uploaded files, persists the registration as
// pending, and sends a confirmation email best-effort.
// PRE: Input parsed from a well-formed submission form
// POST: Registration saved with Status=pending; files stored; returns new ID
// INVARIANT: A failed email send never fails the submission
func ExecuteSubmitRegistration(ctx context.Context, input SubmitRegistrationInput, deps SubmitRegistrationDeps) (string, error) {
	off, err := deps.OfferingStore.GetByID(ctx, input.OfferingID)
	if err != nil {
		return "", err
	}
	if !off.IsPublished() {
		return "", ErrOfferingNotOpen
	}

	if input.PaymentScreenshot == nil {
		return "", ErrMissingScreenshot
	}
	if len(input.MemberDocuments) != len(input.Members) {
		return "", ErrMemberDocumentsCount
	}

	screenshotPath, err := deps.Files.Put(ctx, input.PaymentScreenshot.Filename, input.PaymentScreenshot.Content)
	if err != nil {
		return "", err
	}
	docPaths := make([]string, 0, len(input.MemberDocuments))
	for _, doc := range input.MemberDocuments {
		p, err := deps.Files.Put(ctx, doc.Filename, doc.Content)
		if err != nil {
			return "", err
		}
		docPaths = append(docPaths, p)
	}

	reg := registration.Registration{
		ID:         deps.GenerateID(),
		OfferingID: off.ID,
		Email:      input.Email,
		Phone:      input.Phone,
		Members:    input.Members,

		SameRoomPreference: input.SameRoomPreference,
		WantsTrainBooking:  input.WantsTrainBooking,
		AccommodationNotes: input.AccommodationNotes,

		Train:   input.Train,
		Package: input.Package,
		AddOns:  input.AddOns,

		TotalAmount:           input.TotalAmount,
		IsAdvancePayment:      input.IsAdvancePayment,
		AdvancedPaymentAmount: input.AdvancedPaymentAmount,

		PaymentScreenshotPath: screenshotPath,
		MemberDocumentPaths:   docPaths,
		Suggestions:           input.Suggestions,

		Status:    registration.StatusPending,
		CreatedAt: deps.Now(),
	}

	if err := reg.Validate(); err != nil {
		return "", err
	}

	if err := deps.RegistrationStore.Save(ctx, reg); err != nil {
		return "", err
	}

	slog.Info("registration_event", "event", "registration_submitted",
		"registration_id", reg.ID, "offering_id", off.ID,
		"members", len(reg.Members), "total_amount", reg.TotalAmount)

	if deps.EmailSender != nil {
		req := ComposeConfirmationEmail(reg, off, deps.FromAddress, deps.ReplyTo)
		if _, err := deps.EmailSender.Send(ctx, req); err != nil {
			slog.Warn("confirmation_email_failed", "registration_id", reg.ID, "error", err)
		}
	}

	return reg.ID, nil
}
