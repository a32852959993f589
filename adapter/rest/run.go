package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/reqsift/reqsift"
)

type apiRunParams struct {
	Source   string   `json:"source"`
	Output   string   `json:"output"`
	Keywords []string `json:"keywords,omitempty"`
}

type apiRun struct {
	Id            string    `json:"id"`
	Source        string    `json:"source"`
	Output        string    `json:"output"`
	Status        string    `json:"status"`
	StatusMessage string    `json:"status_message,omitempty"`
	PagesTotal    int       `json:"pages_total"`
	PagesDone     int       `json:"pages_done"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type apiRuns struct {
	Runs []apiRun `json:"runs"`
}

// Start a new extraction run
// (POST /v1/runs)
func (a *Adapter) CreateRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	apiRequest := apiRunParams{}
	if err := readRequestJSON(r, &apiRequest); err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	aRun, err := a.reqSift.StartRun(ctx, reqsift.RunParams{
		Source:   apiRequest.Source,
		Output:   apiRequest.Output,
		Keywords: apiRequest.Keywords,
	})
	if err != nil {
		if errors.Is(err, reqsift.ErrAlreadyRunning) {
			renderJSONError(w, http.StatusConflict, err)
			return
		}
		renderJSONError(w, http.StatusBadRequest, fmt.Errorf("error starting run: %w", err))
		return
	}

	renderJSON(w, http.StatusCreated, mapRun(aRun))
}

func mapRun(aRun *reqsift.Run) apiRun {
	return apiRun{
		Id:            aRun.ID.String(),
		Source:        aRun.Source,
		Output:        aRun.Output,
		Status:        string(aRun.Status),
		StatusMessage: aRun.StatusMessage,
		PagesTotal:    aRun.PagesTotal,
		PagesDone:     aRun.PagesDone,
		CreatedAt:     aRun.Created,
		UpdatedAt:     aRun.Updated,
	}
}

// List runs
// (GET /v1/runs)
func (a *Adapter) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	runs, err := a.reqSift.ListRuns(ctx)
	if err != nil {
		a.logger.Sugar().With("error", err).Error("listing runs")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error listing runs: %w", err))
		return
	}

	apiResponse := apiRuns{
		Runs: make([]apiRun, 0, len(runs)),
	}
	for _, aRun := range runs {
		apiResponse.Runs = append(apiResponse.Runs, mapRun(aRun))
	}
	renderJSON(w, http.StatusOK, apiResponse)
}

// Get a single run by ID
// (GET /v1/runs/{id})
func (a *Adapter) GetRunById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := runIDFromRequest(r)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	aRun, err := a.reqSift.FindRun(ctx, id)
	if err != nil {
		if errors.Is(err, reqsift.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, fmt.Errorf("run not found"))
			return
		}
		a.logger.Sugar().With("error", err).Error("finding run")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error finding run: %w", err))
		return
	}

	renderJSON(w, http.StatusOK, mapRun(aRun))
}

// Request cancellation of the active run
// (POST /v1/runs/{id}/cancel)
func (a *Adapter) CancelRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := runIDFromRequest(r)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.reqSift.CancelRun(ctx, id); err != nil {
		if errors.Is(err, reqsift.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, fmt.Errorf("no active run with this ID"))
			return
		}
		a.logger.Sugar().With("error", err).Error("cancelling run")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error cancelling run: %w", err))
		return
	}

	// Cancellation is cooperative; the run winds down in the background.
	w.WriteHeader(http.StatusAccepted)
}

type apiRequirement struct {
	Id        string    `json:"id"`
	Page      int       `json:"page"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

type apiRequirements struct {
	Requirements []apiRequirement `json:"requirements"`
}

// List requirements extracted by a run
// (GET /v1/runs/{id}/requirements)
func (a *Adapter) ListRunRequirements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := runIDFromRequest(r)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	requirements, err := a.reqSift.ListRequirements(ctx, id)
	if err != nil {
		if errors.Is(err, reqsift.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, fmt.Errorf("run not found"))
			return
		}
		a.logger.Sugar().With("error", err).Error("listing requirements")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error listing requirements: %w", err))
		return
	}

	apiResponse := apiRequirements{
		Requirements: make([]apiRequirement, 0, len(requirements)),
	}
	for _, requirement := range requirements {
		apiResponse.Requirements = append(apiResponse.Requirements, apiRequirement{
			Id:        requirement.ID.String(),
			Page:      requirement.Page,
			Content:   requirement.Content,
			Keywords:  requirement.Keywords,
			WordCount: requirement.WordCount,
			CreatedAt: requirement.Created,
		})
	}
	renderJSON(w, http.StatusOK, apiResponse)
}

type apiEvent struct {
	Page      int       `json:"page"`
	Reason    string    `json:"reason"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type apiEvents struct {
	Events []apiEvent `json:"events"`
}

// List warning events recorded by a run
// (GET /v1/runs/{id}/events)
func (a *Adapter) ListRunEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := runIDFromRequest(r)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	events, err := a.reqSift.ListEvents(ctx, id)
	if err != nil {
		if errors.Is(err, reqsift.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, fmt.Errorf("run not found"))
			return
		}
		a.logger.Sugar().With("error", err).Error("listing events")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error listing events: %w", err))
		return
	}

	apiResponse := apiEvents{
		Events: make([]apiEvent, 0, len(events)),
	}
	for _, event := range events {
		apiResponse.Events = append(apiResponse.Events, apiEvent{
			Page:      event.Page,
			Reason:    string(event.Reason),
			Detail:    event.Detail,
			CreatedAt: event.Created,
		})
	}
	renderJSON(w, http.StatusOK, apiResponse)
}

// Export requirements of a run as a spreadsheet
// (GET /v1/runs/{id}/requirements/export)
func (a *Adapter) ExportRunRequirements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	id, err := runIDFromRequest(r)
	if err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	data, err := a.reqSift.ExportRequirements(ctx, id)
	if err != nil {
		if errors.Is(err, reqsift.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, fmt.Errorf("run not found"))
			return
		}
		a.logger.Sugar().With("error", err).Error("exporting requirements")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error exporting requirements: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "requirements-"+id.String()+".xlsx"))
	_, _ = w.Write(data)
}

func runIDFromRequest(r *http.Request) (reqsift.RunID, error) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		return reqsift.RunID{}, fmt.Errorf("invalid run ID: %w", err)
	}
	return reqsift.RunID{UUID: id}, nil
}
