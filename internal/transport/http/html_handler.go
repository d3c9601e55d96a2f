package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"solareda/pkg/contracts/domain"
)

//go:embed web/dashboard.html
var webFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(webFS, "web/dashboard.html"))

// DashboardPage is the data rendered into the dashboard page.
type DashboardPage struct {
	Version        string
	SampleDataset  string
	MaxUploadMB    int64
	ChartKinds     []domain.ChartKind
	DefaultColumns []string
}

// ServeDashboard serves the single-page dashboard.
func ServeDashboard(page DashboardPage, logger *slog.Logger) http.HandlerFunc {
	if page.ChartKinds == nil {
		page.ChartKinds = domain.ChartKinds
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := dashboardTemplate.Execute(&buf, page); err != nil {
			logger.ErrorContext(r.Context(), "Dashboard render failed", slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	}
}
