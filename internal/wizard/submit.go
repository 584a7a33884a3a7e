package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"yatra/internal/domain/offering"
	"yatra/internal/domain/registration"
)

// Multipart field names — the wire contract with the registration endpoint.
const (
	FieldEmail                 = "email"
	FieldPhone                 = "phone"
	FieldMembers               = "members"
	FieldSameRoomPreference    = "sameRoomPreference"
	FieldWantsTrainBooking     = "wantsTrainBooking"
	FieldAccommodationNotes    = "accommodationNotes"
	FieldSelectedTrain         = "selectedTrain"
	FieldSelectedPackage       = "selectedPackage"
	FieldSelectedAddOns        = "selectedAddOns"
	FieldTotalAmount           = "totalAmount"
	FieldIsAdvancePayment      = "isAdvancePayment"
	FieldAdvancedPaymentAmount = "advancedPaymentAmount"
	FieldSuggestions           = "suggestions"
	FieldPaymentScreenshot     = "paymentScreenshot"
	FieldMemberDocuments       = "memberDocuments"
)

// ErrSubmissionInFlight signals that a submission is already outstanding;
// the duplicate call is a no-op.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

const genericSubmitFailure = "registration could not be submitted, please try again"

// SubmissionError carries the server's rejection of a submission. Message is
// the server-provided text verbatim when present, else a generic fallback.
type SubmissionError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	return e.Message
}

// Submitter issues the single registration POST for a draft. A boolean
// in-flight guard rejects re-entrant submissions; duplicates are a defect to
// prevent, not to coalesce.
type Submitter struct {
	client   *http.Client
	endpoint string
	inFlight atomic.Bool
}

// NewSubmitter creates a Submitter posting to the given registrations URL.
// A nil client uses http.DefaultClient; any timeout is the client's concern.
func NewSubmitter(client *http.Client, endpoint string) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Submitter{client: client, endpoint: endpoint}
}

// Submit builds the multipart payload from the final draft and issues exactly
// one network call. While a request is outstanding, further calls return
// ErrSubmissionInFlight. The guard is released on success, server error, and
// transport error alike, so a failed submission can always be retried with
// the draft intact.
func (s *Submitter) Submit(ctx context.Context, d *Draft, off *offering.Offering) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	body, contentType, err := BuildPayload(d, off)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return fmt.Errorf("building submission request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submitting registration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// The acknowledgment body is opaque; only success matters here.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return &SubmissionError{
		StatusCode: resp.StatusCode,
		Message:    readServerMessage(resp.Body),
	}
}

// readServerMessage extracts a human-readable message from an error response,
// read defensively: absence of the field falls back to a generic message.
func readServerMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return genericSubmitFailure
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return genericSubmitFailure
	}
	return payload.Message
}

// BuildPayload flattens the draft into one multipart body: resolved train and
// package choices as denormalized records (never the route/class catalog),
// members and add-ons as JSON text fields, the computed totals, the payment
// screenshot once, and each member's document under a shared repeated field
// name so the receiver can associate files with members by position.
func BuildPayload(d *Draft, off *offering.Offering) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		FieldEmail:              d.PrimaryContact.Email,
		FieldPhone:              d.PrimaryContact.Phone,
		FieldSameRoomPreference: strconv.FormatBool(d.Accommodation.SameRoomPreference),
		FieldWantsTrainBooking:  strconv.FormatBool(d.Accommodation.WantsTrainBooking),
		FieldAccommodationNotes: d.Accommodation.Notes,
		FieldSuggestions:        d.Suggestions,
	}

	membersJSON, err := json.Marshal(submissionMembers(d))
	if err != nil {
		return nil, "", fmt.Errorf("serializing members: %w", err)
	}
	fields[FieldMembers] = string(membersJSON)

	if t := d.SelectedTrain; t != nil && t.SelectedClass != nil {
		trainJSON, err := json.Marshal(registration.TrainChoice{
			Name:             t.Name,
			Number:           t.Number,
			BoardingStation:  t.BoardingStation,
			AlightingStation: t.AlightingStation,
			Category:         t.SelectedClass.Category,
			Price:            t.SelectedClass.Price,
		})
		if err != nil {
			return nil, "", fmt.Errorf("serializing train choice: %w", err)
		}
		fields[FieldSelectedTrain] = string(trainJSON)
	}

	if p := d.SelectedPackage; p != nil {
		choice := registration.PackageChoice{Name: p.PackageName}
		if p.SelectedPricing != nil {
			choice.TierType = p.SelectedPricing.TierType
			choice.PerPersonPrice = p.SelectedPricing.PerPersonPrice
		} else {
			choice.PerPersonPrice = p.LegacyPricePerPerson
		}
		choice.TotalCost = choice.PerPersonPrice * float64(len(d.Members))
		pkgJSON, err := json.Marshal(choice)
		if err != nil {
			return nil, "", fmt.Errorf("serializing package choice: %w", err)
		}
		fields[FieldSelectedPackage] = string(pkgJSON)
	}

	if len(d.SelectedAddOns) > 0 {
		addOns := make([]registration.AddOnChoice, 0, len(d.SelectedAddOns))
		for _, a := range d.SelectedAddOns {
			addOns = append(addOns, registration.AddOnChoice{Name: a.Name, Price: a.Price})
		}
		addOnsJSON, err := json.Marshal(addOns)
		if err != nil {
			return nil, "", fmt.Errorf("serializing add-ons: %w", err)
		}
		fields[FieldSelectedAddOns] = string(addOnsJSON)
	}

	total := Total(d)
	fields[FieldTotalAmount] = formatAmount(total)
	if advance, ok := AdvanceAmount(total, float64(off.AdvancePaymentPercentage)); ok {
		fields[FieldIsAdvancePayment] = "true"
		fields[FieldAdvancedPaymentAmount] = formatAmount(advance)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	if f := d.PaymentScreenshot; f != nil {
		if err := writeFilePart(w, FieldPaymentScreenshot, f); err != nil {
			return nil, "", err
		}
	}
	for _, m := range d.Members {
		if m.Aadhaar == nil {
			continue
		}
		if err := writeFilePart(w, FieldMemberDocuments, m.Aadhaar); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// submissionMembers converts form members to the submitted shape, parsing
// ages and dropping file handles. Ages are already validated by step 2.
func submissionMembers(d *Draft) []registration.Member {
	members := make([]registration.Member, 0, len(d.Members))
	for _, m := range d.Members {
		age, _ := strconv.Atoi(strings.TrimSpace(m.Age))
		members = append(members, registration.Member{
			Name:         m.Name,
			Age:          age,
			Gender:       m.Gender,
			MobileNumber: m.MobileNumber,
			City:         m.City,
		})
	}
	return members
}

func writeFilePart(w *multipart.Writer, field string, f *FileAttachment) error {
	part, err := w.CreateFormFile(field, f.Filename)
	if err != nil {
		return fmt.Errorf("creating file part %s: %w", field, err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return fmt.Errorf("writing file part %s: %w", field, err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Submit runs the final submission for this session and, on success, clears
// the saved snapshot so the wizard cannot resume a completed registration.
// On failure the draft and snapshot are left intact for retry.
func (s *Session) Submit(ctx context.Context, submitter *Submitter, off *offering.Offering) error {
	if err := submitter.Submit(ctx, s.Draft, off); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, draftKey(s.offeringID)); err != nil {
		slog.Warn("draft_clear_failed", "offering_id", s.offeringID, "error", err)
	}
	return nil
}
