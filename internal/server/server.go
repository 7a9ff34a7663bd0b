package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"axis/internal/app"
	"axis/internal/dashboard"
	"axis/internal/domain"
	"axis/internal/gantt"
	"axis/internal/kv"
	"axis/internal/week"
)

// Config for the HTTP API handler.
type Config struct {
	App      *app.App
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"illegal_transition"`
	Message string         `json:"message" example:"cannot transition from shipped to active"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true" example:"{\"from\":\"shipped\",\"to\":\"active\"}"`
}

// apiError models the error envelope served on every failure.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// timeNow is swapped in tests for a fixed clock.
var timeNow = time.Now

// New returns an HTTP handler exposing the Axis API.
func New(cfg Config) (http.Handler, error) {
	if cfg.App == nil {
		return nil, fmt.Errorf("app is required")
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema/request validation errors should be 400 bad_request
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Axis API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerMe(group, cfg.App)
	registerProjects(group, cfg.App)
	registerResources(group, cfg.App)
	registerWeek(group, cfg.App)
	registerToday(group, cfg.App)
	registerViews(group, cfg.App)
	registerGantt(group, cfg.App)
	registerEvents(group, cfg.App)
	registerOpenAPI(router, api, basePath)

	startWebhookDispatcher(cfg.App)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var ite gantt.IllegalTransitionError
	if errors.As(err, &ite) {
		return newAPIError(http.StatusUnprocessableEntity, "illegal_transition", err.Error(), map[string]any{
			"from": string(ite.From),
			"to":   string(ite.To),
		})
	}
	if errors.Is(err, gantt.ErrArtifactRequired) {
		return newAPIError(http.StatusUnprocessableEntity, "artifact_required", err.Error(), nil)
	}
	if errors.Is(err, gantt.ErrRowNotFound) || errors.Is(err, dashboard.ErrItemNotFound) || errors.Is(err, kv.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	var tma dashboard.TooManyActiveError
	if errors.As(err, &tma) {
		return newAPIError(http.StatusBadRequest, "too_many_active", err.Error(), map[string]any{"limit": tma.Limit})
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	if strings.Contains(lowered, "invalid") || strings.Contains(lowered, "missing") || strings.Contains(lowered, "required") {
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Axis API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]bool `json:"body"`
	}, error) {
		return &struct {
			Body map[string]bool `json:"body"`
		}{Body: map[string]bool{"ok": true}}, nil
	})
}

func registerMe(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current identity",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body MeResponse `json:"body"`
	}, error) {
		return &struct {
			Body MeResponse `json:"body"`
		}{Body: MeResponse{ID: "user_1", Name: a.Cfg.Identity.Name, Role: "primary"}}, nil
	})
}

func registerProjects(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "get-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.ProjectsDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.Projects(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ProjectsDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-projects",
		Method:      http.MethodPut,
		Path:        "/projects",
		Summary:     "Replace project list",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body PutProjectsRequest `json:"body"`
	}) (*struct {
		Body domain.ProjectsDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.PutProjects(ctx, domain.ProjectsDoc{Projects: input.Body.Projects})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ProjectsDoc `json:"body"`
		}{Body: doc}, nil
	})
}

func registerResources(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "get-resources",
		Method:      http.MethodGet,
		Path:        "/resources",
		Summary:     "List resource sections",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.ResourcesDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.Resources(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ResourcesDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-resources",
		Method:      http.MethodPut,
		Path:        "/resources",
		Summary:     "Replace resource sections",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body PutResourcesRequest `json:"body"`
	}) (*struct {
		Body domain.ResourcesDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.PutResources(ctx, domain.ResourcesDoc{Sections: input.Body.Sections})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ResourcesDoc `json:"body"`
		}{Body: doc}, nil
	})
}

func registerWeek(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "get-week",
		Method:      http.MethodGet,
		Path:        "/week",
		Summary:     "Current week document",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.WeekDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.Week(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.WeekDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-week-outcomes",
		Method:      http.MethodPut,
		Path:        "/week/outcomes",
		Summary:     "Set the week's three outcomes",
	}, func(ctx context.Context, input *struct {
		Body WeekOutcomesRequest `json:"body"`
	}) (*struct {
		Body domain.WeekDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.SetWeekOutcomes(ctx, input.Body.Outcomes)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.WeekDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-week-blockers",
		Method:      http.MethodPut,
		Path:        "/week/blockers",
		Summary:     "Set the week's three blockers",
	}, func(ctx context.Context, input *struct {
		Body WeekBlockersRequest `json:"body"`
	}) (*struct {
		Body domain.WeekDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.SetWeekBlockers(ctx, input.Body.Blockers)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.WeekDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-week-mode",
		Method:      http.MethodPut,
		Path:        "/week/mode",
		Summary:     "Set the week mode",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body struct {
			Mode string `json:"mode" enum:"LOCKED IN,OFF"`
		} `json:"body"`
	}) (*struct {
		Body domain.WeekDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.SetWeekMode(ctx, input.Body.Mode)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.WeekDoc `json:"body"`
		}{Body: doc}, nil
	})
}

func registerToday(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "get-today",
		Method:      http.MethodGet,
		Path:        "/today",
		Summary:     "Today document",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.TodayDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.Today(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TodayDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-today-top3",
		Method:      http.MethodPut,
		Path:        "/today/top3",
		Summary:     "Replace today's top 3",
	}, func(ctx context.Context, input *struct {
		Body TodayTop3Request `json:"body"`
	}) (*struct {
		Body domain.TodayDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.SetTodayTop3(ctx, input.Body.Items)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TodayDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-today-item",
		Method:      http.MethodPatch,
		Path:        "/today/top3/{item_id}",
		Summary:     "Toggle a top 3 item",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ItemID string            `path:"item_id"`
		Body   ToggleDoneRequest `json:"body"`
	}) (*struct {
		Body domain.TodayItem `json:"body"`
	}, error) {
		item, err := a.Dashboard.ToggleToday(ctx, input.ItemID, input.Body.Done)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TodayItem `json:"body"`
		}{Body: item}, nil
	})
}

func registerViews(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard-view",
		Method:      http.MethodGet,
		Path:        "/views/dashboard",
		Summary:     "One-screen dashboard view",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body dashboard.View `json:"body"`
	}, error) {
		view, err := a.Dashboard.Dashboard(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body dashboard.View `json:"body"`
		}{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "today-view",
		Method:      http.MethodGet,
		Path:        "/views/today",
		Summary:     "Today view",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.TodayDoc `json:"body"`
	}, error) {
		doc, err := a.Dashboard.Today(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TodayDoc `json:"body"`
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-today-view-item",
		Method:      http.MethodPatch,
		Path:        "/views/today/{kind}/{item_id}",
		Summary:     "Toggle a today view item",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Kind   string            `path:"kind"`
		ItemID string            `path:"item_id"`
		Body   ToggleDoneRequest `json:"body"`
	}) (*struct {
		Body domain.TodayItem `json:"body"`
	}, error) {
		if input.Kind != "outcomes" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "kind must be outcomes", nil)
		}
		item, err := a.Dashboard.ToggleToday(ctx, input.ItemID, input.Body.Done)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.TodayItem `json:"body"`
		}{Body: item}, nil
	})
}

func registerGantt(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-rows",
		Method:      http.MethodGet,
		Path:        "/gantt/rows",
		Summary:     "List commitment rows",
	}, func(ctx context.Context, input *struct {
		Project string `query:"project"`
	}) (*struct {
		Body RowListResponse `json:"body"`
	}, error) {
		rows := a.Gantt.Rows()
		if input.Project != "" {
			filtered := rows[:0]
			for _, r := range rows {
				if r.ProjectKey == input.Project {
					filtered = append(filtered, r)
				}
			}
			rows = filtered
		}
		return &struct {
			Body RowListResponse `json:"body"`
		}{Body: RowListResponse{Rows: mapRows(rows)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-row",
		Method:        http.MethodPost,
		Path:          "/gantt/rows",
		Summary:       "Create a commitment row",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateRowRequest `json:"body"`
	}) (*struct {
		Body RowResponse `json:"body"`
	}, error) {
		if strings.TrimSpace(input.Body.ProjectKey) == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "projectKey is required", nil)
		}
		if strings.TrimSpace(input.Body.Feature) == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "feature is required", nil)
		}
		if !week.Valid(input.Body.StartWeek) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "startWeek must be YYYY-Www", nil)
		}
		if !week.Valid(input.Body.EndWeek) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "endWeek must be YYYY-Www", nil)
		}
		rowSpec := gantt.RowSpec{
			ProjectKey: input.Body.ProjectKey,
			Feature:    input.Body.Feature,
			StartWeek:  input.Body.StartWeek,
			EndWeek:    input.Body.EndWeek,
			Status:     gantt.StatusPlanned,
		}
		if input.Body.LinkedOutcomeID != nil {
			rowSpec.LinkedOutcomeID = *input.Body.LinkedOutcomeID
		}
		if input.Body.Artifact != nil {
			rowSpec.Artifact = domain.Artifact{Type: input.Body.Artifact.Type, URL: input.Body.Artifact.URL}
		}
		row := a.Gantt.AddRow(ctx, rowSpec)
		return &struct {
			Body RowResponse `json:"body"`
		}{Body: rowResponse(row)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-row",
		Method:      http.MethodGet,
		Path:        "/gantt/rows/{row_id}",
		Summary:     "Get a commitment row",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		RowID string `path:"row_id"`
	}) (*struct {
		Body RowResponse `json:"body"`
	}, error) {
		row, err := a.Gantt.Get(input.RowID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RowResponse `json:"body"`
		}{Body: rowResponse(row)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-row",
		Method:      http.MethodPatch,
		Path:        "/gantt/rows/{row_id}",
		Summary:     "Edit a commitment row",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		RowID string           `path:"row_id"`
		Body  UpdateRowRequest `json:"body"`
	}) (*struct {
		Body RowResponse `json:"body"`
	}, error) {
		if input.Body.StartWeek != nil && !week.Valid(*input.Body.StartWeek) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "startWeek must be YYYY-Www", nil)
		}
		if input.Body.EndWeek != nil && !week.Valid(*input.Body.EndWeek) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "endWeek must be YYYY-Www", nil)
		}
		if _, err := a.Gantt.Get(input.RowID); err != nil {
			return nil, handleError(err)
		}
		a.Gantt.UpdateRow(ctx, input.RowID, gantt.RowPatch{
			Feature:         input.Body.Feature,
			StartWeek:       input.Body.StartWeek,
			EndWeek:         input.Body.EndWeek,
			LinkedOutcomeID: input.Body.LinkedOutcomeID,
		})
		row, err := a.Gantt.Get(input.RowID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RowResponse `json:"body"`
		}{Body: rowResponse(row)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-row-status",
		Method:      http.MethodPost,
		Path:        "/gantt/rows/{row_id}/status",
		Summary:     "Transition a row's status",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		RowID string              `path:"row_id"`
		Body  SetRowStatusRequest `json:"body"`
	}) (*struct {
		Body RowResponse `json:"body"`
	}, error) {
		status := gantt.Status(input.Body.Status)
		if !gantt.ValidStatus(status) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid status", nil)
		}
		if err := a.Gantt.UpdateRowStatus(ctx, input.RowID, status, input.Body.Note); err != nil {
			return nil, handleError(err)
		}
		row, err := a.Gantt.Get(input.RowID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RowResponse `json:"body"`
		}{Body: rowResponse(row)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-row-artifact",
		Method:      http.MethodPut,
		Path:        "/gantt/rows/{row_id}/artifact",
		Summary:     "Attach proof-of-completion to a row",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		RowID string          `path:"row_id"`
		Body  ArtifactRequest `json:"body"`
	}) (*struct {
		Body RowResponse `json:"body"`
	}, error) {
		if strings.TrimSpace(input.Body.URL) == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "artifact url is required", nil)
		}
		if _, err := a.Gantt.Get(input.RowID); err != nil {
			return nil, handleError(err)
		}
		a.Gantt.SetArtifact(ctx, input.RowID, domain.Artifact{Type: input.Body.Type, URL: input.Body.URL})
		row, err := a.Gantt.Get(input.RowID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RowResponse `json:"body"`
		}{Body: rowResponse(row)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-row",
		Method:      http.MethodDelete,
		Path:        "/gantt/rows/{row_id}",
		Summary:     "Delete a commitment row",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		RowID string `path:"row_id"`
	}) (*struct{}, error) {
		if _, err := a.Gantt.Get(input.RowID); err != nil {
			return nil, handleError(err)
		}
		a.Gantt.RemoveRow(ctx, input.RowID)
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "row-audit",
		Method:      http.MethodGet,
		Path:        "/gantt/rows/{row_id}/audit",
		Summary:     "Row audit trail, most recent first",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		RowID string `path:"row_id"`
	}) (*struct {
		Body AuditResponse `json:"body"`
	}, error) {
		row, err := a.Gantt.Get(input.RowID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AuditResponse `json:"body"`
		}{Body: AuditResponse{
			RowID:   row.ID,
			Feature: row.Feature,
			Entries: auditNewestFirst(row.AuditTrail),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "gantt-timeline",
		Method:      http.MethodGet,
		Path:        "/gantt/timeline",
		Summary:     "Rows positioned on the week window",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Start string `query:"start"`
		Weeks int    `query:"weeks"`
	}) (*struct {
		Body TimelineResponse `json:"body"`
	}, error) {
		start := input.Start
		if start == "" {
			start = week.Current(timeNow())
		}
		if !week.Valid(start) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "start must be YYYY-Www", nil)
		}
		count := input.Weeks
		if count <= 0 {
			count = a.Cfg.Timeline.WindowWeeks
		}
		window := week.Window(start, count)
		return &struct {
			Body TimelineResponse `json:"body"`
		}{Body: timelineResponse(window, a.Gantt.Rows())}, nil
	})
}

func registerEvents(api huma.API, a *app.App) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Change log, most recent first",
	}, func(ctx context.Context, input *struct {
		Limit      int    `query:"limit"`
		Type       string `query:"type"`
		EntityKind string `query:"entity_kind"`
		EntityID   string `query:"entity_id"`
	}) (*struct {
		Body []domain.Event `json:"body"`
	}, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}
		evts, err := a.Events.Latest(ctx, limit, input.Type, input.EntityKind, input.EntityID)
		if err != nil {
			return nil, handleError(err)
		}
		if evts == nil {
			evts = []domain.Event{}
		}
		return &struct {
			Body []domain.Event `json:"body"`
		}{Body: evts}, nil
	})
}
