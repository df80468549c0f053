package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/keybind/internal/input/key"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode []ValidationErrorCode
	}{
		{"defaults", func(*Config) {}, nil},
		{"empty tag", func(c *Config) {
			c.KeyGroups = append(c.KeyGroups, KeyGroup{})
		}, []ValidationErrorCode{ErrCodeRequiredMissing}},
		{"duplicate tag", func(c *Config) {
			c.KeyGroups = append(c.KeyGroups, KeyGroup{Tag: "Gamepad"})
		}, []ValidationErrorCode{ErrCodeDuplicate}},
		{"undefined default group", func(c *Config) {
			c.DefaultKeyGroupTag = "Touch"
		}, []ValidationErrorCode{ErrCodeUndefinedReference}},
		{"empty axis key", func(c *Config) {
			c.AxisAssociations = append(c.AxisAssociations, AxisAssociation{})
		}, []ValidationErrorCode{ErrCodeRequiredMissing}},
		{"negative link", func(c *Config) {
			c.SlotLinks = [][]int{{-1, 0, -2}}
		}, []ValidationErrorCode{ErrCodeOutOfRange, ErrCodeOutOfRange}},
		{"bad log level", func(c *Config) {
			c.LogLevel = "verbose"
		}, []ValidationErrorCode{ErrCodeInvalidEnum}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			codes := validationCodes(err)
			if len(codes) != len(tt.wantCode) {
				t.Fatalf("Validate() codes = %v, want %v (err: %v)", codes, tt.wantCode, err)
			}
			for i := range codes {
				if codes[i] != tt.wantCode[i] {
					t.Errorf("code[%d] = %v, want %v", i, codes[i], tt.wantCode[i])
				}
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = false")
			}
		})
	}
}

func TestValidate_Suggestion(t *testing.T) {
	cfg := Default()
	cfg.DefaultKeyGroupTag = key.Group("Gampad")

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), `did you mean "Gamepad"`) {
		t.Errorf("Validate() = %v, want suggestion", err)
	}
}

func TestValidationErrorCode_String(t *testing.T) {
	if got := ErrCodeDuplicate.String(); got != "duplicate" {
		t.Errorf("String() = %q, want duplicate", got)
	}
	if got := ValidationErrorCode(200).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func validationCodes(err error) []ValidationErrorCode {
	if err == nil {
		return nil
	}
	var list []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		list = joined.Unwrap()
	} else {
		list = []error{err}
	}
	codes := make([]ValidationErrorCode, 0, len(list))
	for _, e := range list {
		var ve *ValidationError
		if errors.As(e, &ve) {
			codes = append(codes, ve.Code)
		}
	}
	return codes
}
