package models

// ErrorResponse is the JSON body returned for any failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON body returned for mutations that do not echo
// the affected record.
type MessageResponse struct {
	Message string `json:"message"`
}
