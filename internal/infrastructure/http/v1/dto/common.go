// Package dto defines request/response bodies for the HTTP API.
package dto

// SuccessResponse is a generic success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list payloads with a count.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}
