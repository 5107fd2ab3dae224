package web

import (
	"net/http"

	"github.com/elchristog/marketing-funnels-gestor/internal/adapters/quickchart"
	"github.com/elchristog/marketing-funnels-gestor/internal/export"
)

const (
	viewFunnel = "funnel"
	viewWeekly = "weekly"
)

func (s *Server) handleAPIFunnel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dr, err := s.parseRange(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	rows, err := s.service.GetFunnel(ctx, dr)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.FormatJSON.ContentType())
	_ = export.WriteFunnel(w, export.FormatJSON, rows)
}

func (s *Server) handleAPIFunnelWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dr, err := s.parseRange(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	rows, err := s.service.GetFunnelByWeek(ctx, dr)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.FormatJSON.ContentType())
	_ = export.WriteWeekly(w, export.FormatJSON, rows)
}

type chartResponse struct {
	View string `json:"view"`
	From string `json:"from"`
	To   string `json:"to"`
	URL  string `json:"url"`
}

func (s *Server) handleAPIChartConversion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dr, err := s.parseRange(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = viewFunnel
	}

	var cfg quickchart.ChartConfig
	switch view {
	case viewFunnel:
		rows, err := s.service.GetFunnel(ctx, dr)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		cfg = quickchart.FunnelConversionChart(rows)
	case viewWeekly:
		totals, err := s.service.GetWeeklyRollup(ctx, dr)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		cfg = quickchart.WeeklyConversionChart(totals)
	default:
		http.Error(w, "view must be funnel or weekly", http.StatusBadRequest)
		return
	}

	url, err := quickchart.GetChartImageUrlForConfig(cfg)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, chartResponse{
		View: view,
		From: dr.StartString(),
		To:   dr.EndString(),
		URL:  url,
	})
}
