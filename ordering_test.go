package keysetpager

import (
	"testing"
)

func Test_Direction_Valid_And_inverted(t *testing.T) {
	tests := []struct {
		name     string
		in       Direction
		valid    bool
		inverted Direction
	}{
		{"ASC valid inverts to DESC", DirectionASC, true, DirectionDESC},
		{"DESC valid inverts to ASC", DirectionDESC, true, DirectionASC},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.valid {
			t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
		}
		if got := tt.in.inverted(); got != tt.inverted {
			t.Errorf("%s: inverted=%v want %v", tt.name, got, tt.inverted)
		}
	}

	if Direction("bad").Valid() {
		t.Errorf("expected 'bad' direction to be invalid")
	}
}

func Test_PageDirection_Valid(t *testing.T) {
	if !PageForward.Valid() || !PageBackward.Valid() {
		t.Errorf("expected page directions to be valid")
	}
	if PageDirection("sideways").Valid() {
		t.Errorf("expected 'sideways' page direction to be invalid")
	}
}

func Test_Orderings_validate(t *testing.T) {
	tests := []struct {
		name string
		ord  Orderings
		ok   bool
	}{
		{"empty returns error", Orderings{}, false},
		{"invalid direction", Orderings{{Column: "id", Direction: "bad"}}, false},
		{"forbidden symbols in column", Orderings{{Column: "id; DROP TABLE users", Direction: DirectionASC}}, false},
		{"valid list", Orderings{{Column: "id", Direction: DirectionASC}}, true},
	}
	for _, tt := range tests {
		if err := tt.ord.validate(); (err == nil) != tt.ok {
			t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
		}
	}
}

func Test_Orderings_ToSQL(t *testing.T) {
	ord := Orderings{
		{Column: "a", Direction: DirectionASC},
		{Column: "b", Direction: DirectionDESC},
	}

	if got := ord.ToSQL(); got != "a ASC, b DESC" {
		t.Errorf("ToSQL: got '%s'", got)
	}
}

func Test_ParseSort(t *testing.T) {
	mapping := ColumnMapping{
		"id":   "t.id",
		"name": "t.name",
	}

	tests := []struct {
		name  string
		in    []string
		ok    bool
		first OrderBy
	}{
		{"invalid format", []string{"id"}, false, OrderBy{}},
		{"unknown alias", []string{"idx asc"}, false, OrderBy{}},
		{"lowercase direction", []string{"id asc"}, true, OrderBy{Column: "t.id", Direction: DirectionASC}},
		{"uppercase direction", []string{"name DESC"}, true, OrderBy{Column: "t.name", Direction: DirectionDESC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.in, mapping)
			if (err == nil) != tt.ok {
				t.Fatalf("%s: ok=%v err=%v", tt.name, tt.ok, err)
			}
			if tt.ok && got[0] != tt.first {
				t.Errorf("%s: got %+v want %+v", tt.name, got[0], tt.first)
			}
		})
	}
}

func Test_closestAlias(t *testing.T) {
	got := closestAlias("craeted_at", []ColumnAlias{"id", "created_at", "name"})
	if got != "created_at" {
		t.Errorf("closestAlias: got '%s'", got)
	}
}
