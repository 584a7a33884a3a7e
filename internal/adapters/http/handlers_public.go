package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	offeringStorePkg "yatra/internal/adapters/storage/offering"
	"yatra/internal/application/orchestrators"
	"yatra/internal/domain/offering"
	"yatra/internal/domain/registration"
	"yatra/internal/wizard"
)

// maxSubmissionBytes bounds a registration upload: screenshots plus one
// identity document per member.
const maxSubmissionBytes = 32 << 20

// offeringSummary is the public list view of an offering.
type offeringSummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ImageURL        string `json:"imageUrl"`
	DisplayDate     string `json:"displayDate"`
	Location        string `json:"location"`
	Duration        string `json:"duration"`
	TicketPriceText string `json:"ticketPriceText"`
}

// offeringDetail is the public detail view, carrying the full catalog the
// wizard prices against plus the rendered description.
type offeringDetail struct {
	offering.Offering
	DescriptionHTML string `json:"descriptionHtml"`
}

// handleListOfferings returns published offerings, newest first.
func handleListOfferings(w http.ResponseWriter, r *http.Request) {
	offs, err := stores.OfferingStore.List(r.Context(), offeringStorePkg.ListFilter{
		Status: offering.StatusPublished,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	summaries := make([]offeringSummary, 0, len(offs))
	for _, o := range offs {
		summaries = append(summaries, offeringSummary{
			ID:              o.ID,
			Title:           o.Title,
			ImageURL:        o.ImageURL,
			DisplayDate:     o.DisplayDate,
			Location:        o.Location,
			Duration:        o.Duration,
			TicketPriceText: o.TicketPriceText,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"offerings": summaries})
}

// handleGetOffering returns one offering with its full catalog. Unpublished
// offerings are invisible to the public.
func handleGetOffering(w http.ResponseWriter, r *http.Request) {
	o, err := stores.OfferingStore.GetByID(r.Context(), chi.URLParam(r, "offeringID"))
	if err != nil || !o.IsPublished() {
		writeError(w, http.StatusNotFound, "offering not found")
		return
	}
	writeJSON(w, http.StatusOK, offeringDetail{
		Offering:        o,
		DescriptionHTML: renderDescription(o.Description),
	})
}

// handleSubmitRegistration accepts the wizard's multipart submission. Field
// names are the shared wire contract; member documents arrive as a repeated
// file field aligned positionally with the members array.
func handleSubmitRegistration(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse submission form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	input, err := parseSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.OfferingID = chi.URLParam(r, "offeringID")

	deps := orchestrators.SubmitRegistrationDeps{
		OfferingStore:     stores.OfferingStore,
		RegistrationStore: stores.RegistrationStore,
		Files:             uploads,
		EmailSender:       emailSender,
		FromAddress:       emailFromAddress,
		ReplyTo:           emailReplyTo,
		GenerateID:        generateID,
		Now:               timeNow,
	}

	id, err := orchestrators.ExecuteSubmitRegistration(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "offering not found")
		case errors.Is(err, orchestrators.ErrOfferingNotOpen):
			writeError(w, http.StatusConflict, err.Error())
		default:
			// Orchestrator and domain validation errors carry safe,
			// user-facing messages.
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// parseSubmission maps the multipart form onto the orchestrator input.
func parseSubmission(r *http.Request) (orchestrators.SubmitRegistrationInput, error) {
	var input orchestrators.SubmitRegistrationInput

	input.Email = r.FormValue(wizard.FieldEmail)
	input.Phone = r.FormValue(wizard.FieldPhone)
	input.SameRoomPreference = r.FormValue(wizard.FieldSameRoomPreference) == "true"
	input.WantsTrainBooking = r.FormValue(wizard.FieldWantsTrainBooking) == "true"
	input.AccommodationNotes = r.FormValue(wizard.FieldAccommodationNotes)
	input.Suggestions = r.FormValue(wizard.FieldSuggestions)

	if raw := r.FormValue(wizard.FieldMembers); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Members); err != nil {
			return input, errors.New("members field is not valid JSON")
		}
	}
	if raw := r.FormValue(wizard.FieldSelectedTrain); raw != "" {
		var t registration.TrainChoice
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return input, errors.New("selectedTrain field is not valid JSON")
		}
		input.Train = &t
	}
	if raw := r.FormValue(wizard.FieldSelectedPackage); raw != "" {
		var p registration.PackageChoice
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return input, errors.New("selectedPackage field is not valid JSON")
		}
		input.Package = &p
	}
	if raw := r.FormValue(wizard.FieldSelectedAddOns); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.AddOns); err != nil {
			return input, errors.New("selectedAddOns field is not valid JSON")
		}
	}

	input.TotalAmount, _ = strconv.ParseFloat(r.FormValue(wizard.FieldTotalAmount), 64)
	input.IsAdvancePayment = r.FormValue(wizard.FieldIsAdvancePayment) == "true"
	input.AdvancedPaymentAmount, _ = strconv.ParseFloat(r.FormValue(wizard.FieldAdvancedPaymentAmount), 64)

	if files := r.MultipartForm.File[wizard.FieldPaymentScreenshot]; len(files) > 0 {
		up, err := openUpload(files[0])
		if err != nil {
			return input, err
		}
		input.PaymentScreenshot = up
	}
	for _, fh := range r.MultipartForm.File[wizard.FieldMemberDocuments] {
		up, err := openUpload(fh)
		if err != nil {
			return input, err
		}
		input.MemberDocuments = append(input.MemberDocuments, *up)
	}

	return input, nil
}

func openUpload(fh *multipart.FileHeader) (*orchestrators.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		slog.Warn("upload_open_failed", "filename", fh.Filename, "error", err)
		return nil, errors.New("could not read uploaded file")
	}
	// Closed implicitly by RemoveAll when the request completes.
	return &orchestrators.Upload{Filename: fh.Filename, Content: f}, nil
}
