package dto

// Error messages returned to clients. Store failure details are logged, never sent.
const (
	MsgInvalidCourseID   = "Invalid course ID."
	MsgCourseNotFound    = "Course not found."
	MsgInvalidBody       = "Invalid request body."
	MsgRetrieveCourses   = "Failed to retrieve courses."
	MsgAddCourse         = "Failed to add course."
	MsgRetrieveCourse    = "Failed to retrieve course."
	MsgUpdateCourse      = "Failed to update course."
	MsgDeleteCourse      = "Failed to delete course."
	MsgStoreUnavailable  = "Store unavailable."
	MsgInternalServerErr = "Internal server error."
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error" example:"Course not found."`
}

// NewErrorResponse creates an error body with the given message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
