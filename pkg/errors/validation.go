package errors

import (
	"strings"
	"unicode"
)

// ValidateTaxID validates a tax id taken from user input (flags, id files,
// URL paths) before it is looked up.
//
// The rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No commas or pipes (list and dump field separators)
//   - Maximum length of 64 characters
func ValidateTaxID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTaxID, "tax id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidTaxID, "tax id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTaxID, "tax id contains whitespace or control characters: %q", id)
		}
	}

	if strings.ContainsAny(id, ",|") {
		return New(ErrCodeInvalidTaxID, "tax id contains a separator character: %q", id)
	}

	return nil
}

// ValidateTaxIDs validates every id, returning the first failure.
func ValidateTaxIDs(ids []string) error {
	for _, id := range ids {
		if err := ValidateTaxID(id); err != nil {
			return err
		}
	}
	return nil
}

// ValidateNameClass validates a names.dmp name class such as
// "scientific name".
func ValidateNameClass(class string) error {
	if strings.TrimSpace(class) == "" {
		return New(ErrCodeInvalidInput, "name class cannot be empty")
	}
	if strings.Contains(class, "|") {
		return New(ErrCodeInvalidInput, "name class cannot contain '|': %q", class)
	}
	return nil
}
