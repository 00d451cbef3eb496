package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NCAR/cirrus-portal/pkg/archive"
	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/docsite"
	"github.com/NCAR/cirrus-portal/pkg/errors"
	"github.com/NCAR/cirrus-portal/pkg/scm"
	"github.com/NCAR/cirrus-portal/pkg/serializers"
	"github.com/NCAR/cirrus-portal/pkg/site"
	"github.com/NCAR/cirrus-portal/pkg/tracker"
	"github.com/NCAR/cirrus-portal/pkg/uptime"
)

const (
	// generateTimeout bounds one chart generation request, including any
	// GitHub publication round trips.
	generateTimeout = 60 * time.Second

	// statusTimeout bounds the full status page aggregation.
	statusTimeout = 15 * time.Second
)

// Delivery outputs for generated charts.
const (
	outputZip      = "zip"
	outputGitHubPR = "github_pr"
)

// handleRoot serves the service descriptor on / and 404s everything else
// that fell through the mux.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
			"Resource not found", false, map[string]any{"path": r.URL.Path})
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}

	serializers.RespondJSON(w, http.StatusOK, map[string]any{
		"name":    s.config.Name,
		"version": s.config.Version,
		"routes": []string{
			"GET  /v1/addons",
			"POST /v1/charts",
			"GET  /v1/apps",
			"GET  /v1/status",
			"GET  /v1/sla",
			"POST /v1/requests",
		},
	})
}

// addonInfo is the form-facing view of one registry entry.
type addonInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
}

// handleAddons handles GET /v1/addons
func (s *Server) handleAddons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}

	defs := s.registry.All()
	addons := make([]addonInfo, 0, len(defs))
	for _, def := range defs {
		addons = append(addons, addonInfo{
			ID:          string(def.ID),
			Name:        def.Name,
			Description: def.Description,
			Fields:      def.Fields,
		})
	}

	serializers.RespondJSON(w, http.StatusOK, map[string]any{
		"addons": addons,
		"count":  len(addons),
	})
}

// handleCharts handles POST /v1/charts. The JSON body carries the app
// configuration, the enabled add-ons with their field values, and the
// delivery options.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r, http.MethodPost)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Invalid request body", false, map[string]any{"error": err.Error()})
		return
	}

	cfg, sel := chart.ParseForm(raw)
	files, err := s.assembler.Assemble(cfg, sel)
	if err != nil {
		WriteErrorFromErr(w, r, err, "")
		return
	}

	slog.Debug("chart generated",
		"requestID", r.Context().Value(contextKeyRequestID),
		"app", cfg.Name,
		"addons", len(sel.Addons),
		"files", len(files),
	)

	output := stringField(raw, "output_format", outputZip)
	switch output {
	case outputZip:
		s.respondZip(w, cfg.Name, files)
	case outputGitHubPR:
		s.respondPullRequest(ctx, w, r, raw, cfg, sel, files)
	default:
		WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Unsupported output format", false, map[string]any{"output_format": output})
	}
}

// respondZip streams the chart as a zip download.
func (s *Server) respondZip(w http.ResponseWriter, appName string, files chart.FileSet) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+archive.Filename(appName)+`"`)
	w.Header().Set("X-Chart-Files", strconv.Itoa(len(files)))

	if err := archive.WriteZip(w, appName, files); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("failed to stream chart archive", "app", appName, "error", err)
		return
	}
	chartsGenerated.WithLabelValues(outputZip).Inc()
}

// respondPullRequest publishes the chart to GitHub and returns the PR URL.
func (s *Server) respondPullRequest(ctx context.Context, w http.ResponseWriter, r *http.Request,
	raw map[string]any, cfg chart.AppConfig, sel chart.Selection, files chart.FileSet) {

	token := stringField(raw, "github_token", "")
	repoURL := stringField(raw, "github_repo", "")
	if token == "" || repoURL == "" {
		WriteError(w, r, http.StatusBadRequest, errors.ErrCodeValidation,
			"github_token and github_repo are required for pull request delivery", false, nil)
		return
	}

	var addonNames []string
	for _, id := range sel.Addons {
		if def, err := s.registry.Lookup(id); err == nil {
			addonNames = append(addonNames, def.Name)
		}
	}

	prURL, err := scm.Publish(ctx, s.newSCM(token), scm.PublishRequest{
		RepoURL:    repoURL,
		BaseBranch: stringField(raw, "github_branch", ""),
		AppName:    cfg.Name,
		AddonNames: addonNames,
		Files:      files,
	})
	if err != nil {
		WriteErrorFromErr(w, r, err, "Failed to publish chart")
		return
	}

	chartsGenerated.WithLabelValues(outputGitHubPR).Inc()
	serializers.RespondJSON(w, http.StatusOK, map[string]string{"pr_url": prURL})
}

// handleApps handles GET /v1/apps
func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}

	categories, err := site.LoadApps(s.config.AppsFile)
	if err != nil {
		WriteErrorFromErr(w, r, err, "Failed to load application listing")
		return
	}

	serializers.RespondJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
	})
}

// handleStatus handles GET /v1/status. Upstream monitor failures degrade
// pages to UNKNOWN; the response status stays 200.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}

	cfg, err := site.LoadMonitorConfig(s.config.MonitorsFile)
	if err != nil {
		WriteErrorFromErr(w, r, err, "Failed to load monitor roster")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
	defer cancel()

	source := s.newStatusSource(cfg.UptimeKumaURL)
	pages := make([]uptime.PageStatus, len(cfg.StatusPages))

	g, gctx := errgroup.WithContext(ctx)
	for i, page := range cfg.StatusPages {
		g.Go(func() error {
			pages[i] = source.PageStatus(gctx, page.Name, page.Slug)
			return nil
		})
	}
	_ = g.Wait()

	serializers.RespondJSON(w, http.StatusOK, map[string]any{
		"pages":      pages,
		"last_check": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSLA handles GET /v1/sla. Fetch failures degrade to a null content
// body so the portal page renders its fallback.
func (s *Server) handleSLA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r, http.MethodGet)
		return
	}

	url := s.config.SLAURL
	if url == "" {
		url = docsite.DefaultSLAURL
	}

	content, err := s.docs.Fetch(r.Context(), url)
	if err != nil {
		slog.Warn("SLA page fetch failed", "url", url, "error", err)
		serializers.RespondJSON(w, http.StatusOK, map[string]any{"content": nil})
		return
	}

	serializers.RespondJSON(w, http.StatusOK, map[string]any{"content": content})
}

// handleRequests handles POST /v1/requests
func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r, http.MethodPost)
		return
	}

	if s.tracker == nil {
		WriteError(w, r, http.StatusServiceUnavailable, errors.ErrCodeInternal,
			"Hosting request intake is not configured", false, nil)
		return
	}

	var req tracker.HostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Invalid request body", false, map[string]any{"error": err.Error()})
		return
	}

	ticket, err := s.tracker.File(r.Context(), req)
	if err != nil {
		WriteErrorFromErr(w, r, err, "")
		return
	}

	serializers.RespondJSON(w, http.StatusCreated, ticket)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
}

// stringField reads a string field from a decoded JSON body with a default.
func stringField(raw map[string]any, key, def string) string {
	if s, ok := raw[key].(string); ok && s != "" {
		return s
	}
	return def
}
