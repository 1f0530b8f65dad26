package models

// MatchSuggestion links a subject item to one candidate. It is never stored.
type MatchSuggestion struct {
	ID     string   `json:"id"`
	Reason string   `json:"reason"`
	Score  *float64 `json:"score,omitempty"` // 0..1 when the model provides one
}

// MatchCandidate is the item shape sent to the matching model.
type MatchCandidate struct {
	ID          string `json:"id" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=lost found"` // lost or found, as the matching model sees it
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// CandidateFromItem converts a stored item into the shape the matcher expects.
// The matcher calls the lost/found axis "status", so Type is carried there.
func CandidateFromItem(item *Item) MatchCandidate {
	return MatchCandidate{
		ID:          item.ID,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		Status:      item.Type,
		PhotoURL:    item.ImageURL,
	}
}
