package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/spf13/cast"

	"sitecost/config"
	"sitecost/services"
)

const genericError = "Something went wrong. Please try again."

var errForeignLineItem = errors.New("line item belongs to another document")

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// render writes the partial for HTMX requests and the full page otherwise.
func render(e *core.RequestEvent, partial, page templ.Component) error {
	if isHTMX(e) {
		return partial.Render(e.Request.Context(), e.Response)
	}
	return page.Render(e.Request.Context(), e.Response)
}

// redirect sends HTMX clients an HX-Redirect and everyone else a 302.
func redirect(e *core.RequestEvent, url string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}

// formFloat parses a numeric form value. Currency symbols, thousands
// separators and a trailing percent sign are accepted. ok is false when the
// field is absent or blank.
func formFloat(e *core.RequestEvent, key string) (v float64, ok bool, err error) {
	raw := strings.TrimSpace(e.Request.FormValue(key))
	if raw == "" {
		return 0, false, nil
	}
	raw = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(raw)
	v, err = cast.ToFloat64E(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
	return v, true, nil
}

func formString(e *core.RequestEvent, key string) string {
	return strings.TrimSpace(e.Request.FormValue(key))
}

func formatDate(dt types.DateTime) string {
	if dt.IsZero() {
		return "—"
	}
	return dt.Time().Format("02 Jan 2006")
}

func marginThresholds(cfg config.Config) services.MarginThresholds {
	return services.MarginThresholds{
		Excellent: cfg.Thresholds.Excellent,
		Good:      cfg.Thresholds.Good,
		Poor:      cfg.Thresholds.Poor,
	}
}

// findProjectRecord loads the project named by the projectId path value.
func findProjectRecord(e *core.RequestEvent) (*core.Record, error) {
	return e.App.FindRecordById("projects", e.Request.PathValue("projectId"))
}

// findEstimateRecord loads the estimate named by the id path value and
// checks it belongs to the projectId path value.
func findEstimateRecord(e *core.RequestEvent) (*core.Record, error) {
	projectID := e.Request.PathValue("projectId")
	rec, err := e.App.FindRecordById("estimates", e.Request.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if rec.GetString("project") != projectID {
		return nil, fmt.Errorf("estimate %s does not belong to project %s", rec.Id, projectID)
	}
	return rec, nil
}

func countRecords(app core.App, collection, field, id string) int {
	n, err := app.CountRecords(collection, dbx.HashExp{field: id})
	if err != nil {
		return 0
	}
	return int(n)
}

// plural formats n with noun, adding an "s" unless n is 1.
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// firstError returns the message of the alphabetically first field, so
// toasts are stable across requests.
func firstError(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) == 0 {
		return ""
	}
	return errs[keys[0]]
}
