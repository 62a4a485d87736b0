package models

// HTTP surface shared by the filter store server and its client
const (
	SelectionPath = "/api/internal/pipeline_selection"
	GroupsPath    = "/api/internal/pipeline_groups"
	EventsPath    = "/api/internal/pipeline_selection/events"

	// UserHeader names the user whose personalization a request addresses
	UserHeader  = "X-Dashviews-User"
	DefaultUser = "anonymous"
)

// SelectionUpdate is the body of a PUT to SelectionPath
type SelectionUpdate struct {
	Filters []View `json:"filters"`
}

// SelectionSaved is the response to a successful PUT
type SelectionSaved struct {
	ContentHash string `json:"contentHash"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Message string `json:"message"`
}
