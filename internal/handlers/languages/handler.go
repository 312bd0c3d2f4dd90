package languages

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/jobprep-2025.net/internal/core/harness"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/services/templates"
	"gitlab.com/jobprep-2025.net/internal/handlers"
	"gitlab.com/jobprep-2025.net/internal/static/errs"
)

type LanguageHandler struct {
	registry    *harness.Registry
	templateSvc templates.ITemplateService
	logger      primary.Logger
}

func NewLanguageHandler(registry *harness.Registry, templateSvc templates.ITemplateService, logger primary.Logger) *LanguageHandler {
	return &LanguageHandler{
		registry:    registry,
		templateSvc: templateSvc,
		logger:      logger,
	}
}

type Language struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	LanguageID  int    `json:"languageId"`
}

type LanguageListResponse struct {
	Languages []Language `json:"languages"`
}

type TemplateResponse struct {
	Language     string `json:"language"`
	FunctionName string `json:"functionName"`
	Template     string `json:"template"`
	Stored       bool   `json:"stored"`
}

// RegisterRoutes registers the public language routes
func (h *LanguageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/languages", h.ListLanguages).Methods(http.MethodGet)
	router.HandleFunc("/api/languages/{language}/template", h.GetTemplate).Methods(http.MethodGet)
}

func (h *LanguageHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	profiles := h.registry.Languages()
	out := make([]Language, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, Language{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			LanguageID:  p.LanguageID(),
		})
	}
	handlers.ResponseWithJson(w, http.StatusOK, LanguageListResponse{Languages: out})
}

// GetTemplate renders starter code for ?questionId= or ?title= in the
// requested language. ?params=a,b names the generated parameters.
func (h *LanguageHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := templates.TemplateRequest{
		Language: mux.Vars(r)["language"],
		Title:    query.Get("title"),
		Params:   splitParams(query.Get("params")),
	}
	if raw := query.Get("questionId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handlers.WriteServiceError(w, fmt.Errorf("invalid question id: %w", errs.InvalidRequest))
			return
		}
		req.QuestionID = &id
	}

	tpl, err := h.templateSvc.Template(r.Context(), req)
	if err != nil {
		if errors.Is(err, errs.UnsupportedLanguage) {
			h.logger.Debug("Template requested for unknown language", "language", req.Language)
		}
		handlers.WriteServiceError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, TemplateResponse{
		Language:     tpl.Language,
		FunctionName: tpl.FunctionName,
		Template:     tpl.Template,
		Stored:       tpl.Stored,
	})
}

func splitParams(raw string) []string {
	var params []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}
