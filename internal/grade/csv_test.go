package grade

import (
	"strings"
	"testing"

	"gradebook/internal/shared"
)

func TestExportGradesToCSV(t *testing.T) {
	agg := NewAggregator(DefaultScale())
	assessments := testAssessments()

	t.Run("Empty Roster", func(t *testing.T) {
		if out := agg.ExportGradesToCSV(nil, assessments); out != "" {
			t.Errorf("Expected empty string for empty roster, got %q", out)
		}
	})

	t.Run("Header And Row Shape", func(t *testing.T) {
		records := map[string]shared.GradeRecord{
			"ASMT_1": record("ASMT_1", 8),
			"ASMT_2": record("ASMT_2", 6),
		}
		roster := []StudentSummary{agg.BuildStudentSummary(testProfile(), assessments, records)}

		out := agg.ExportGradesToCSV(roster, assessments)
		lines := strings.Split(out, "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 lines (header + 1 row), got %d", len(lines))
		}

		header := strings.Split(lines[0], ",")
		if len(header) != 6 {
			t.Fatalf("Expected 6 header fields, got %d: %v", len(header), header)
		}
		if header[0] != "Nome" || header[2] != "Status" || header[5] != "Nota Final" {
			t.Errorf("Unexpected header: %v", header)
		}
		if header[3] != "Prova 1 (50%)" {
			t.Errorf("Expected assessment column with weight, got %q", header[3])
		}

		row := strings.Split(lines[1], ",")
		if len(row) != 6 {
			t.Fatalf("Expected 6 row fields, got %d: %v", len(row), row)
		}
		if row[2] != "Aprovado" {
			t.Errorf("Expected translated status Aprovado, got %q", row[2])
		}
		if row[3] != "8.00" || row[5] != "7.00" {
			t.Errorf("Unexpected grade cells: %v", row)
		}
	})

	t.Run("Missing Grade Renders Empty Cell", func(t *testing.T) {
		records := map[string]shared.GradeRecord{
			"ASMT_1": record("ASMT_1", 8),
		}
		roster := []StudentSummary{agg.BuildStudentSummary(testProfile(), assessments, records)}

		out := agg.ExportGradesToCSV(roster, assessments)
		lines := strings.Split(out, "\n")
		row := strings.Split(lines[1], ",")

		if row[4] != "" {
			t.Errorf("Expected empty cell for missing grade, got %q", row[4])
		}
		if row[2] != "Pendente" {
			t.Errorf("Expected Pendente for incomplete grades, got %q", row[2])
		}
	})

	t.Run("Quotes Fields With Delimiters", func(t *testing.T) {
		profile := shared.User{ID: "S2", Name: "Lima, Ana", Email: "ana@example.com"}
		roster := []StudentSummary{agg.BuildStudentSummary(profile, assessments, nil)}

		out := agg.ExportGradesToCSV(roster, assessments)
		if !strings.Contains(out, `"Lima, Ana"`) {
			t.Errorf("Expected comma-bearing name to be quoted, got %q", out)
		}
	})
}
