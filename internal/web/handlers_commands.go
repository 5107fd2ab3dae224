package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/elchristog/marketing-funnels-gestor/internal/analytics"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
)

func (s *Server) handleCreateStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	order, err := parseInt64(r.FormValue("order_number"))
	if err != nil {
		http.Error(w, "Order number must be an integer", http.StatusBadRequest)
		return
	}

	if _, err := s.service.AddStep(ctx, name, order); err != nil {
		writeError(w, err, http.StatusConflict)
		return
	}
	redirectBack(w, r)
}

func (s *Server) handleDeleteStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.service.DeleteStep(ctx, id); err != nil {
		writeError(w, err, http.StatusConflict)
		return
	}
	redirectBack(w, r)
}

func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	stepRef := strings.TrimSpace(r.FormValue("step"))
	if stepRef == "" {
		http.Error(w, "Funnel step is required", http.StatusBadRequest)
		return
	}
	realizations, err := parseInt64(r.FormValue("realizations"))
	if err != nil {
		http.Error(w, "Realizations must be an integer", http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(r.FormValue("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The form posts step IDs; names are accepted for hand-written requests.
	stepID := stepRef
	if step, err := s.service.ResolveStep(ctx, stepRef); err == nil {
		stepID = step.ID
	}

	_, err = s.service.AddRegistration(ctx, analytics.RegistrationInput{
		FunnelStepID: stepID,
		Description:  util.OptionalString(r.FormValue("description")),
		Realizations: realizations,
		Date:         date,
	})
	if err != nil {
		writeError(w, err, http.StatusConflict)
		return
	}
	redirectBack(w, r)
}

func (s *Server) handleCreateHypothesis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(r.FormValue("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = s.service.AddHypothesis(ctx, analytics.HypothesisInput{
		Name:        name,
		Description: util.OptionalString(r.FormValue("description")),
		Date:        date,
	})
	if err != nil {
		writeError(w, err, http.StatusConflict)
		return
	}
	redirectBack(w, r)
}

// flashError sends the browser back to the dashboard with err shown on top.
func flashError(w http.ResponseWriter, r *http.Request, err error) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}
