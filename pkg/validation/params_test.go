package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/splitter"
)

func TestSplitParams_Config(t *testing.T) {
	cfg, err := SplitParams{Rows: "2", Columns: " 3 ", Bottom: "1"}.Config()
	require.NoError(t, err)
	assert.Equal(t, splitter.Config{
		Rows:    2,
		Columns: 3,
		Margins: splitter.Margins{Bottom: 1},
	}, cfg)
	assert.Equal(t, splitter.StrategyManual, cfg.Strategy().Kind)

	cfg, err = SplitParams{Rows: "4", Columns: "4", Left: "0", Right: "", Top: "0", Bottom: "0"}.Config()
	require.NoError(t, err)
	assert.Equal(t, splitter.StrategyAuto, cfg.Strategy().Kind)
}

func TestSplitParams_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params SplitParams
		kind   apperrors.ErrorType
	}{
		{"missing rows", SplitParams{Columns: "2"}, apperrors.ErrorTypeValidation},
		{"text rows", SplitParams{Rows: "two", Columns: "2"}, apperrors.ErrorTypeValidation},
		{"float margin", SplitParams{Rows: "1", Columns: "2", Left: "1.5"}, apperrors.ErrorTypeValidation},
		{"zero columns", SplitParams{Rows: "1", Columns: "0"}, apperrors.ErrorTypeConfiguration},
		{"negative margin", SplitParams{Rows: "1", Columns: "1", Top: "-2"}, apperrors.ErrorTypeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.Config()
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.kind), "got %v", err)
		})
	}
}
