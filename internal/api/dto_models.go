package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SavedStateResponse reports whether the caller has saved an item.
type SavedStateResponse struct {
	ItemID string `json:"itemId"`
	Saved  bool   `json:"saved"`
}
