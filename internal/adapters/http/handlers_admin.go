package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"yatra/internal/adapters/http/middleware"
	offeringStorePkg "yatra/internal/adapters/storage/offering"
	"yatra/internal/application/listutil"
	"yatra/internal/application/orchestrators"
	"yatra/internal/application/projections"
	"yatra/internal/domain/offering"
)

// --- Authentication ---

// handleLogin authenticates an organizer and sets the session cookie.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(),
		orchestrators.LoginInput{Email: body.Email, Password: body.Password},
		orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusTooManyRequests
		}
		writeError(w, status, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"email": result.Email, "role": result.Role})
}

// handleLogout clears the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("yatra_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// --- Dashboard ---

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardDeps{
		OfferingStore:     stores.OfferingStore,
		RegistrationStore: stores.RegistrationStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- Offering management ---

// offeringForm is the request body for creating and updating offerings.
type offeringForm struct {
	Title                    string                     `json:"title"`
	ImageURL                 string                     `json:"imageUrl"`
	DisplayDate              string                     `json:"displayDate"`
	Location                 string                     `json:"location"`
	Duration                 string                     `json:"duration"`
	Eligibility              string                     `json:"eligibility"`
	Description              string                     `json:"description"`
	TicketPriceText          string                     `json:"ticketPriceText"`
	AdvancePaymentPercentage float64                    `json:"advancePaymentPercentage"`
	Trains                   []offering.TrainOffering   `json:"trains"`
	Packages                 []offering.PackageOffering `json:"packages"`
	AddOns                   []offering.AddOnOffering   `json:"addOns"`
}

func (f *offeringForm) toOrchestratorForm() orchestrators.OfferingForm {
	return orchestrators.OfferingForm{
		Title:                    f.Title,
		ImageURL:                 f.ImageURL,
		DisplayDate:              f.DisplayDate,
		Location:                 f.Location,
		Duration:                 f.Duration,
		Eligibility:              f.Eligibility,
		Description:              f.Description,
		TicketPriceText:          f.TicketPriceText,
		AdvancePaymentPercentage: f.AdvancePaymentPercentage,
		Trains:                   f.Trains,
		Packages:                 f.Packages,
		AddOns:                   f.AddOns,
	}
}

func offeringDeps() orchestrators.CreateOfferingDeps {
	return orchestrators.CreateOfferingDeps{
		OfferingStore: stores.OfferingStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

// handleAdminListOfferings returns offerings of every status for the back office.
func handleAdminListOfferings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offs, err := stores.OfferingStore.List(r.Context(), offeringStorePkg.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("q"),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offerings": offs})
}

func handleAdminGetOffering(w http.ResponseWriter, r *http.Request) {
	o, err := stores.OfferingStore.GetByID(r.Context(), chi.URLParam(r, "offeringID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "offering not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func handleCreateOffering(w http.ResponseWriter, r *http.Request) {
	var form offeringForm
	if err := strictDecode(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := orchestrators.ExecuteCreateOffering(r.Context(), form.toOrchestratorForm(), offeringDeps())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func handleUpdateOffering(w http.ResponseWriter, r *http.Request) {
	var form offeringForm
	if err := strictDecode(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteUpdateOffering(r.Context(), orchestrators.UpdateOfferingInput{
		OfferingID: chi.URLParam(r, "offeringID"),
		Form:       form.toOrchestratorForm(),
	}, offeringDeps())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func handlePublishOffering(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecutePublishOffering(r.Context(),
		orchestrators.PublishOfferingInput{OfferingID: chi.URLParam(r, "offeringID")},
		offeringDeps())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": offering.StatusPublished})
}

func handleCloseOffering(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteCloseOffering(r.Context(),
		orchestrators.CloseOfferingInput{OfferingID: chi.URLParam(r, "offeringID")},
		offeringDeps())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": offering.StatusClosed})
}

// handleDeleteOffering removes a draft offering. Admin only — an organizer
// cannot delete, and published offerings must be closed instead.
func handleDeleteOffering(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		writeError(w, http.StatusForbidden, "only admins can delete offerings")
		return
	}
	o, err := stores.OfferingStore.GetByID(r.Context(), chi.URLParam(r, "offeringID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "offering not found")
		return
	}
	if o.Status != offering.StatusDraft {
		writeError(w, http.StatusConflict, "only draft offerings can be deleted")
		return
	}
	if err := stores.OfferingStore.Delete(r.Context(), o.ID); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Registration management ---

func handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.RegistrationSortColumns, []string{"status"})

	result, err := projections.QueryGetRegistrationList(r.Context(), projections.GetRegistrationListQuery{
		OfferingID: chi.URLParam(r, "offeringID"),
		Params:     params,
	}, projections.GetRegistrationListDeps{RegistrationStore: stores.RegistrationStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := stores.RegistrationStore.GetByID(r.Context(), chi.URLParam(r, "registrationID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "registration not found")
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func handleUpdateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string `json:"action"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	reg, err := orchestrators.ExecuteUpdateRegistrationStatus(r.Context(),
		orchestrators.UpdateRegistrationStatusInput{
			RegistrationID: chi.URLParam(r, "registrationID"),
			Action:         body.Action,
			ActorEmail:     sess.Email,
		},
		orchestrators.UpdateRegistrationStatusDeps{RegistrationStore: stores.RegistrationStore})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": reg.ID, "status": reg.Status})
}

// --- Uploads ---

// handleGetUpload streams a stored payment screenshot or identity document.
// Uploads hold personal documents, so they sit behind the back-office guard.
func handleGetUpload(w http.ResponseWriter, r *http.Request) {
	f, err := uploads.Open(r.Context(), chi.URLParam(r, "path"))
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, f)
}

// --- Performance ---

// handlePerf returns aggregated request and query timings for the last hour.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r.Context()) {
		writeError(w, http.StatusForbidden, "only admins can view performance data")
		return
	}
	snap := perfCollector.Take(timeNow().Add(-time.Hour), 10)
	writeJSON(w, http.StatusOK, snap)
}
