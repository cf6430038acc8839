package dto

// CourseDocument documents the shape of a stored course for the API docs.
// Handlers exchange models.Course, which accepts any additional field.
type CourseDocument struct {
	ID          int64  `json:"id" example:"1"`
	Title       string `json:"title" example:"Intro"`
	Description string `json:"description,omitempty" example:"Variables, control flow and functions."`
}

// CoursePayload documents a create or update body; id and _id are ignored.
type CoursePayload struct {
	Title       string `json:"title,omitempty" example:"Intro"`
	Description string `json:"description,omitempty" example:"Variables, control flow and functions."`
}
