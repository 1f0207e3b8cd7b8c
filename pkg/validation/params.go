package validation

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/splitter"
)

// SplitParams holds grid parameters as typed by a user. Blank margins read
// as zero; blank rows or columns are an error.
type SplitParams struct {
	Rows    string
	Columns string
	Left    string
	Right   string
	Top     string
	Bottom  string
}

// Config parses the parameters into a validated splitter configuration.
// Text that is not an integer is a validation error; integers the splitter
// cannot use are configuration errors.
func (p SplitParams) Config() (splitter.Config, error) {
	var cfg splitter.Config
	fields := []struct {
		name     string
		text     string
		dst      *int
		required bool
	}{
		{"rows", p.Rows, &cfg.Rows, true},
		{"columns", p.Columns, &cfg.Columns, true},
		{"left", p.Left, &cfg.Margins.Left, false},
		{"right", p.Right, &cfg.Margins.Right, false},
		{"top", p.Top, &cfg.Margins.Top, false},
		{"bottom", p.Bottom, &cfg.Margins.Bottom, false},
	}

	for _, f := range fields {
		text := strings.TrimSpace(f.text)
		if text == "" {
			if f.required {
				return splitter.Config{}, apperrors.NewValidationError(fmt.Sprintf("%s is required", f.name), nil)
			}
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return splitter.Config{}, apperrors.NewValidationError(
				fmt.Sprintf("%s must be an integer, got %q", f.name, f.text), err)
		}
		*f.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return splitter.Config{}, err
	}
	return cfg, nil
}
