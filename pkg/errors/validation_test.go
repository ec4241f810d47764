package errors

import (
	"testing"
)

func TestValidateTaxID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "9606", false},
		{"root", "1", false},
		{"non numeric", "GB_GCA_000005845", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"space", "96 06", true},
		{"tab", "9606\t", true},
		{"newline", "9606\n", true},
		{"comma", "9606,562", true},
		{"pipe", "9606|", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaxID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaxID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTaxID) {
				t.Errorf("ValidateTaxID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTaxID)
			}
		})
	}
}

func TestValidateTaxIDs(t *testing.T) {
	if err := ValidateTaxIDs([]string{"1", "2"}); err != nil {
		t.Errorf("ValidateTaxIDs() error = %v", err)
	}
	if err := ValidateTaxIDs([]string{"1", ""}); err == nil {
		t.Error("ValidateTaxIDs() should reject an empty id")
	}
}

func TestValidateNameClass(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"scientific name", false},
		{"genbank common name", false},
		{"", true},
		{"   ", true},
		{"a|b", true},
	}

	for _, tt := range tests {
		if err := ValidateNameClass(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateNameClass(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
