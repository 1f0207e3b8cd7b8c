package models

import (
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/mask"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/splitter"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/storage"
)

// Background is the colour at the sheet origin
type Background struct {
	Hex      string `json:"hex"`
	Channels []int  `json:"channels"`
}

// CellInfo describes one produced cell
type CellInfo struct {
	Index  int  `json:"index"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Empty  bool `json:"empty,omitempty"`
}

// DetectResponse lists the sprite regions found against the background
type DetectResponse struct {
	Source            string             `json:"source"`
	Width             int                `json:"width"`
	Height            int                `json:"height"`
	Background        Background         `json:"background"`
	ForegroundPixels  int                `json:"foreground_pixels"`
	Regions           []mask.BoundingBox `json:"regions"`
	Timestamp         string             `json:"timestamp"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
}

// ExtractResponse is a detection plus the cropped regions
type ExtractResponse struct {
	DetectResponse
	JobID string          `json:"job_id,omitempty"`
	Cells []CellInfo      `json:"cells"`
	Saved []storage.Saved `json:"saved,omitempty"`
}

// SplitResponse describes a grid split
type SplitResponse struct {
	Source            string           `json:"source"`
	JobID             string           `json:"job_id,omitempty"`
	Strategy          string           `json:"strategy"`
	Rows              int              `json:"rows"`
	Columns           int              `json:"columns"`
	Margins           splitter.Margins `json:"margins"`
	Cells             []CellInfo       `json:"cells"`
	Saved             []storage.Saved  `json:"saved,omitempty"`
	Timestamp         string           `json:"timestamp"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
}
