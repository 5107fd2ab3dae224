package web

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/elchristog/marketing-funnels-gestor/internal/export"
)

func (s *Server) handleAPIExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dr, err := s.parseRange(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = viewFunnel
	}

	setDownloadHeaders := func() {
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", format.Filename(view, dr)))
	}

	switch view {
	case viewFunnel:
		rows, err := s.service.GetFunnel(ctx, dr)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		setDownloadHeaders()
		err = export.WriteFunnel(w, format, rows)
		logWriteError(err, view, format)
	case viewWeekly:
		rows, err := s.service.GetFunnelByWeek(ctx, dr)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		setDownloadHeaders()
		err = export.WriteWeekly(w, format, rows)
		logWriteError(err, view, format)
	default:
		http.Error(w, "view must be funnel or weekly", http.StatusBadRequest)
	}
}

func logWriteError(err error, view string, format export.Format) {
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"view":   view,
			"format": format,
		}).Warn("failed to write report")
	}
}

func (s *Server) handleAPIExportDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dir, err := os.MkdirTemp("", "mfunnel-export-")
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "funnels.db")
	if err := s.service.ExportDatabase(ctx, path); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("funnels_%s.db", s.service.Today().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.sqlite3")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	http.ServeContent(w, r, filename, stat.ModTime(), f)
}

func (s *Server) handleAPIImportDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	upload, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A database file is required", http.StatusBadRequest)
		return
	}
	defer upload.Close()

	tmp, err := os.CreateTemp("", "mfunnel-import-*.db")
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, upload); err != nil {
		_ = tmp.Close()
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	if err := s.service.ImportDatabase(ctx, tmp.Name()); err != nil {
		flashError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
