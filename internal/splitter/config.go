package splitter

import (
	"fmt"

	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
)

// Margins are pixel counts stripped from each edge of the sheet before it is
// partitioned.
type Margins struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// IsZero reports whether no margin is set.
func (m Margins) IsZero() bool {
	return m.Left == 0 && m.Right == 0 && m.Top == 0 && m.Bottom == 0
}

// Config describes a rows × columns grid with optional margins.
type Config struct {
	Rows    int     `json:"rows"`
	Columns int     `json:"columns"`
	Margins Margins `json:"margins"`
}

// NewConfig validates and returns a grid configuration without margins.
func NewConfig(rows, columns int) (Config, error) {
	cfg := Config{Rows: rows, Columns: columns}
	return cfg, cfg.Validate()
}

// WithMargins returns the configuration with margins set
func (c Config) WithMargins(left, right, top, bottom int) Config {
	c.Margins = Margins{Left: left, Right: right, Top: top, Bottom: bottom}
	return c
}

// Validate rejects zero or negative grid dimensions and negative margins.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Columns <= 0 {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("row or column cannot be less than 1, (row, col)=(%d, %d)", c.Rows, c.Columns), nil)
	}
	m := c.Margins
	if m.Left < 0 || m.Right < 0 || m.Top < 0 || m.Bottom < 0 {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("margins cannot be negative, (left, right, top, bottom)=(%d, %d, %d, %d)",
				m.Left, m.Right, m.Top, m.Bottom), nil)
	}
	return nil
}

// StrategyKind tags how a sheet is cut.
type StrategyKind int

const (
	// StrategyAuto splits the whole sheet then trims every cell.
	StrategyAuto StrategyKind = iota
	// StrategyManual strips margins then splits, without trimming.
	StrategyManual
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyManual:
		return "manual"
	default:
		return "auto"
	}
}

// Strategy is chosen once per configuration. Margins is only meaningful for
// StrategyManual.
type Strategy struct {
	Kind    StrategyKind
	Margins Margins
}

// Strategy selects manual splitting when any margin is set and automatic
// trimming otherwise.
func (c Config) Strategy() Strategy {
	if !c.Margins.IsZero() {
		return Strategy{Kind: StrategyManual, Margins: c.Margins}
	}
	return Strategy{Kind: StrategyAuto}
}
