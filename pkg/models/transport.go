package models

// SheetRequest names a remote sheet. Handlers also accept the sheet as a
// multipart "image" file, in which case URL is empty.
type SheetRequest struct {
	URL string `json:"url" form:"url"`
}

// SplitRequest carries grid parameters as text, parsed by the handler
type SplitRequest struct {
	SheetRequest
	Rows    string `json:"rows" form:"rows"`
	Columns string `json:"columns" form:"columns"`
	Left    string `json:"left" form:"left"`
	Right   string `json:"right" form:"right"`
	Top     string `json:"top" form:"top"`
	Bottom  string `json:"bottom" form:"bottom"`
	Base    string `json:"base" form:"base"`
	Ext     string `json:"ext" form:"ext"`
	Save    bool   `json:"save" form:"save"`
}

// ExtractRequest crops every detected region, optionally saving them
type ExtractRequest struct {
	SheetRequest
	Base string `json:"base" form:"base"`
	Ext  string `json:"ext" form:"ext"`
	Save bool   `json:"save" form:"save"`
}

// PreviewRequest bounds the preview size. Zero values use the server limits.
type PreviewRequest struct {
	SheetRequest
	MaxWidth  int `json:"max_width" form:"max_width"`
	MaxHeight int `json:"max_height" form:"max_height"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
