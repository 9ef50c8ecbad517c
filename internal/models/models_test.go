package models

import (
	"errors"
	"testing"
)

func TestParseAssetTag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "five digits", input: "12345"},
		{name: "seven digits", input: "1234567"},
		{name: "leading zeros kept", input: "0012345"},
		{name: "too short", input: "1234", wantErr: true},
		{name: "too long", input: "12345678", wantErr: true},
		{name: "non digit", input: "12a45", wantErr: true},
		{name: "unicode digit", input: "1234٥", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := ParseAssetTag(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetTag) {
					t.Errorf("Expected ErrInvalidAssetTag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tag.String() != tt.input {
				t.Errorf("Expected %s, got %s", tt.input, tag)
			}
		})
	}
}

func TestCategoryChoiceResolve(t *testing.T) {
	tests := []struct {
		name     string
		choice   CategoryChoice
		expected Category
		wantErr  error
	}{
		{name: "preset", choice: Preset("Mesas"), expected: "MESAS"},
		{name: "preset case insensitive", choice: Preset("cadeiras"), expected: "CADEIRAS"},
		{name: "preset with accent", choice: Preset("Informática"), expected: "INFORMÁTICA"},
		{name: "custom text", choice: Custom("Lousa digital"), expected: "LOUSA DIGITAL"},
		{name: "custom trimmed", choice: Custom("  quadro  "), expected: "QUADRO"},
		{name: "custom empty", choice: Custom("   "), wantErr: ErrEmptyCategory},
		{name: "preset empty", choice: Preset(""), wantErr: ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.choice.Resolve()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCategoryChoiceIsCustom(t *testing.T) {
	if Preset("Mesas").IsCustom() {
		t.Error("Expected preset not to be custom")
	}
	if !Custom("Mesas").IsCustom() {
		t.Error("Expected typed text to be custom")
	}
}

func TestCategoryChoiceUnknownPreset(t *testing.T) {
	if _, err := Preset("Telescópios").Resolve(); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestTableColumn(t *testing.T) {
	table := Table{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"111", "222"}, {"333", ""}},
	}

	got := table.Column("B")
	if len(got) != 2 || got[0] != "222" || got[1] != "" {
		t.Errorf("Unexpected column B: %v", got)
	}
	if table.Column("C") != nil {
		t.Error("Expected nil for absent column")
	}
}

func TestSanitizeLocation(t *testing.T) {
	tests := map[string]string{
		" Sala 3B ":   "Sala_3B",
		"Sala 3/B":    "Sala_3_B",
		`Bloco\A`:     "Bloco_A",
		"../etc":      ".._etc",
		"Lab<1>|2":    "Lab_1__2",
		"Sala\tA\x00": "Sala_A_",
	}
	for in, want := range tests {
		if got := SanitizeLocation(in); got != want {
			t.Errorf("SanitizeLocation(%q) = %q, want %q", in, got, want)
		}
	}
}
