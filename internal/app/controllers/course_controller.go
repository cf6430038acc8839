package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/app/models/dto"
	"github.com/Rifat402/courses-app/internal/app/services"
	"github.com/Rifat402/courses-app/internal/middleware"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
)

// CourseController serves the course collection (/courses) and single
// courses (/courses/:id)
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// parseCourseID reads the :id path parameter. On failure the 400 response has
// already been written and ok is false.
func parseCourseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidCourseID, dto.MsgInvalidCourseID)
		return 0, false
	}
	return id, true
}

// bindCourse decodes a JSON object body. On failure the 400 response has
// already been written and ok is false.
func bindCourse(ctx *gin.Context) (models.Course, bool) {
	var payload models.Course
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err), dto.MsgInvalidBody)
		return nil, false
	}
	if payload == nil {
		payload = models.Course{}
	}
	return payload, true
}

// ListCourses retrieves all courses
// @Summary List courses
// @Description Returns every course in the store's natural order
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseDocument "Courses"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve courses."
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err, dto.MsgRetrieveCourses)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// CreateCourse adds a course under the next id
// @Summary Create a course
// @Description Stores the given fields under a newly assigned id. The body echoes the input; the id is in the Location header.
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CoursePayload true "Course fields"
// @Success 201 {object} dto.CoursePayload "Echoed input"
// @Header 201 {string} Location "URL of the created course"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body."
// @Failure 500 {object} dto.ErrorResponse "Failed to add course."
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	payload, ok := bindCourse(ctx)
	if !ok {
		return
	}

	id, err := c.courseService.CreateCourse(ctx.Request.Context(), payload)
	if err != nil {
		middleware.HandleAPIError(ctx, err, dto.MsgAddCourse)
		return
	}

	ctx.Header("Location", ctx.FullPath()+"/"+strconv.FormatInt(id, 10))
	ctx.JSON(http.StatusCreated, payload)
}

// GetCourse retrieves a course by id
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64)
// @Success 200 {object} dto.CourseDocument "Course"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID."
// @Failure 404 {object} dto.ErrorResponse "Course not found."
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve course."
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err, dto.MsgRetrieveCourse)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// UpdateCourse replaces the supplied fields of a course
// @Summary Update a course
// @Description Sets only the supplied fields; id and _id cannot be changed
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID" Format(int64)
// @Param request body dto.CoursePayload true "Fields to replace"
// @Success 200 {object} dto.CourseDocument "Updated course"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID."
// @Failure 404 {object} dto.ErrorResponse "Course not found."
// @Failure 500 {object} dto.ErrorResponse "Failed to update course."
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	patch, ok := bindCourse(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err, dto.MsgUpdateCourse)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64)
// @Success 200 {object} dto.MessageResponse "Course with ID 1 deleted."
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID."
// @Failure 404 {object} dto.ErrorResponse "Course not found."
// @Failure 500 {object} dto.ErrorResponse "Failed to delete course."
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err, dto.MsgDeleteCourse)
		return
	}

	ctx.JSON(http.StatusOK, dto.CourseDeleted(id))
}
