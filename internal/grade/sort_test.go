package grade

import (
	"testing"
)

func TestSortStudentsGrades(t *testing.T) {
	roster := []StudentSummary{
		{UserID: "u1", Name: "Carla", Email: "carla@example.com", FinalGrade: 6, TotalPercentage: 100},
		{UserID: "u2", Name: "ana", Email: "ana@example.com", FinalGrade: 9, TotalPercentage: 80},
		{UserID: "u3", Name: "Bruno", Email: "bruno@example.com", FinalGrade: 4, TotalPercentage: 100},
	}

	names := func(roster []StudentSummary) []string {
		var out []string
		for _, s := range roster {
			out = append(out, s.Name)
		}
		return out
	}

	t.Run("Defaults To Name Ascending", func(t *testing.T) {
		sorted := SortStudentsGrades(roster, "", "")
		got := names(sorted)
		want := []string{"ana", "Bruno", "Carla"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("Name Sort Is Case Insensitive", func(t *testing.T) {
		sorted := SortStudentsGrades(roster, SortByName, OrderAsc)
		if sorted[0].Name != "ana" {
			t.Errorf("Expected lowercase \"ana\" to sort first, got %q", sorted[0].Name)
		}
	})

	t.Run("Final Grade Descending", func(t *testing.T) {
		sorted := SortStudentsGrades(roster, SortByFinalGrade, OrderDesc)
		if sorted[0].UserID != "u2" {
			t.Errorf("Expected highest scorer first, got %s", sorted[0].UserID)
		}
		if sorted[2].UserID != "u3" {
			t.Errorf("Expected lowest scorer last, got %s", sorted[2].UserID)
		}
	})

	t.Run("Stable On Ties", func(t *testing.T) {
		sorted := SortStudentsGrades(roster, SortByTotalPercentage, OrderAsc)
		// u1 and u3 tie at 100; their relative order must survive.
		if sorted[1].UserID != "u1" || sorted[2].UserID != "u3" {
			t.Errorf("Tie broke input order: got %s then %s", sorted[1].UserID, sorted[2].UserID)
		}
	})

	t.Run("Unknown Field Preserves Order", func(t *testing.T) {
		sorted := SortStudentsGrades(roster, "bogus", OrderAsc)
		for i := range roster {
			if sorted[i].UserID != roster[i].UserID {
				t.Fatalf("Unknown field reordered the roster at index %d", i)
			}
		}
	})

	t.Run("Does Not Mutate Input", func(t *testing.T) {
		SortStudentsGrades(roster, SortByName, OrderAsc)
		if roster[0].UserID != "u1" {
			t.Error("Input roster was mutated")
		}
	})
}
