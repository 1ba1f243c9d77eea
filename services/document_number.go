package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// DocumentKind identifies a numbered project document.
type DocumentKind struct {
	Prefix     string
	Collection string
}

var (
	DocEstimate    = DocumentKind{Prefix: "EST", Collection: "estimates"}
	DocQuote       = DocumentKind{Prefix: "QT", Collection: "quotes"}
	DocChangeOrder = DocumentKind{Prefix: "CO", Collection: "change_orders"}
)

// formatDocumentNumber constructs the number string from its parts.
func formatDocumentNumber(prefix, projectRef string, year, sequence int) string {
	return fmt.Sprintf("%s-%s-%d-%03d", prefix, projectRef, year, sequence)
}

// GenerateDocumentNumber returns the next number for a document of the given
// kind in a project.
// Format: {prefix}-{project_ref}-{year}-{sequence}
//   - project_ref: the project's reference_number, or its ID when empty
//   - sequence: 3-digit zero-padded, per project, per kind, per calendar year
func GenerateDocumentNumber(app core.App, kind DocumentKind, projectID string, now time.Time) (string, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}

	projectRef := project.GetString("reference_number")
	if projectRef == "" {
		projectRef = projectID
	}

	prefix := fmt.Sprintf("%s-%s-%d-", kind.Prefix, projectRef, now.Year())

	existing, err := app.FindRecordsByFilter(
		kind.Collection,
		"project = {:projectId} && number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"projectId": projectID,
			"prefix":    prefix + "%",
		},
	)
	if err != nil {
		existing = nil
	}

	return formatDocumentNumber(kind.Prefix, projectRef, now.Year(), len(existing)+1), nil
}
