// Package splitter cuts a sprite sheet laid out as a regular grid into its
// cells.
//
// Two strategies exist and exactly one applies to a configuration. When any
// margin is set the margins are stripped and the remaining image is split
// as is. When no margin is set the whole image is split and every cell is
// trimmed with AutoTrim.
package splitter

import (
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/pixel"
)

// Splitter applies one validated configuration to sheets.
type Splitter struct {
	config   Config
	strategy Strategy
}

// New validates cfg and fixes its strategy.
func New(cfg Config) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{config: cfg, strategy: cfg.Strategy()}, nil
}

// Config returns the configuration the splitter was built with.
func (s *Splitter) Config() Config { return s.config }

// Strategy returns the strategy chosen for the configuration.
func (s *Splitter) Strategy() Strategy { return s.strategy }

// Split cuts g into Rows × Columns cells in row-major order.
func (s *Splitter) Split(g *pixel.Grid) ([]*pixel.Grid, error) {
	switch s.strategy.Kind {
	case StrategyManual:
		trimmed, err := ApplyMargins(g, s.strategy.Margins)
		if err != nil {
			return nil, err
		}
		return SplitGrid(trimmed, s.config.Rows, s.config.Columns)

	default:
		cells, err := SplitGrid(g, s.config.Rows, s.config.Columns)
		if err != nil {
			return nil, err
		}
		for i, cell := range cells {
			cells[i] = AutoTrim(cell)
		}
		return cells, nil
	}
}
