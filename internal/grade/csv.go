// ============================================================================
// internal/grade/csv.go
// CSV export of a course roster
// ============================================================================

package grade

import (
	"encoding/csv"
	"fmt"
	"strings"

	"gradebook/internal/shared"
)

// statusLabels holds the user-facing (pt-BR) status translations used in the
// exported spreadsheet. The column layout is a compatibility contract for
// spreadsheet import; changing it breaks downstream consumers.
var statusLabels = map[Status]string{
	StatusPending:  "Pendente",
	StatusApproved: "Aprovado",
	StatusFailed:   "Reprovado",
}

// ExportGradesToCSV renders a roster as CSV. Columns: Nome, Email, Status,
// one "<name> (<weight>%)" column per assessment in listing order, and Nota
// Final. A missing grade renders as an empty cell, not "0.00". Returns the
// empty string for an empty roster. Fields containing delimiters or quotes
// are quoted per RFC 4180.
func (a *Aggregator) ExportGradesToCSV(roster []StudentSummary, assessments []shared.Assessment) string {
	if len(roster) == 0 {
		return ""
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"Nome", "Email", "Status"}
	for _, assessment := range assessments {
		header = append(header, fmt.Sprintf("%s (%g%%)", assessment.Name, numericOrZero(assessment.Percentage)))
	}
	header = append(header, "Nota Final")
	w.Write(header)

	for _, student := range roster {
		row := []string{student.Name, student.Email, statusLabels[student.Status]}
		for _, assessment := range assessments {
			entry, ok := student.Grades[assessment.ID]
			if !ok || entry.Grade == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", *entry.Grade))
		}
		row = append(row, fmt.Sprintf("%.2f", student.FinalGrade))
		w.Write(row)
	}

	w.Flush()
	return strings.TrimSuffix(buf.String(), "\n")
}
