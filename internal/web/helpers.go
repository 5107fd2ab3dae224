package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elchristog/marketing-funnels-gestor/internal/analytics"
	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

// parseRange reads the date range from the query string. A known preset wins
// over explicit bounds; missing bounds default to the current month.
func (s *Server) parseRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	if preset := q.Get("preset"); preset != "" {
		if dr, ok := domain.PresetRange(preset, s.service.Today()); ok {
			return dr, nil
		}
	}
	return s.service.ParseRange(q.Get("from"), q.Get("to"))
}

// parseOptionalDate parses a form date, returning nil for an empty value.
func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseInt64(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// errorStatus maps service errors to HTTP status codes. Anything else is a
// raw store error and gets fallback.
func errorStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, analytics.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, analytics.ErrNotFound):
		return http.StatusNotFound
	default:
		return fallback
	}
}

// writeError reports err with its raw message. Writes pass
// http.StatusConflict so constraint violations read as such; reads pass
// http.StatusInternalServerError.
func writeError(w http.ResponseWriter, err error, fallback int) {
	status := errorStatus(err, fallback)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	} else {
		log.WithError(err).WithField("status", status).Debug("request rejected")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

// redirectBack sends the browser back to the dashboard, keeping the range it
// was looking at when one was posted along with the form.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/"
	v := url.Values{}
	if from := r.FormValue("from"); from != "" {
		v.Set("from", from)
	}
	if to := r.FormValue("to"); to != "" {
		v.Set("to", to)
	}
	if len(v) > 0 {
		target += "?" + v.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
