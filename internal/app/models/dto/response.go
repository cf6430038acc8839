package dto

import "fmt"

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message" example:"Course with ID 1 deleted."`
}

// CourseDeleted builds the confirmation returned after a successful delete
func CourseDeleted(id int64) MessageResponse {
	return MessageResponse{Message: fmt.Sprintf("Course with ID %d deleted.", id)}
}

// HealthResponse reports store reachability
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
