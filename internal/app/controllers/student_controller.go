package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/services"
	"github.com/esisa/student-records/internal/middleware"
)

// StudentController handles student record operations
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// ListStudents returns a page of student records
// @Summary List students
// @Description Retrieves students with search, filter, sort and pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against student ID, name or email"
// @Param status query string false "Filter by status" Enums(active, graduated, suspended, withdrawn)
// @Param program query string false "Filter by program"
// @Param sortBy query string false "Sort field" Enums(studentId, firstName, lastName, email, program, year, gpa, status, enrollmentDate, createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var params dto.StudentListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.studentService.List(ctx, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetStudent retrieves a single student record
// @Summary Get student by ID
// @Description Retrieves a student record with the creating user attached
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student record ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// CreateStudent creates a new student record
// @Summary Create student
// @Description Creates a new student record attributed to the authenticated user
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Student ID or email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	actor, _ := middleware.ActorFromContext(ctx)

	student, err := c.studentService.Create(ctx, &req, actor, requestMeta(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student))
}

// UpdateStudent applies a partial update to a student record
// @Summary Update student
// @Description Partially updates a student record; absent fields are left untouched
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student record ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Student ID or email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	actor, _ := middleware.ActorFromContext(ctx)

	student, err := c.studentService.Update(ctx, id, &req, actor, requestMeta(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// DeleteStudent removes a student record
// @Summary Delete student
// @Description Deletes a student record. Admin only.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, _ := middleware.ActorFromContext(ctx)

	if err := c.studentService.Delete(ctx, id, actor, requestMeta(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted successfully"}))
}

// NextStudentID proposes the next free student code
// @Summary Next student code
// @Description Returns the next available student code for the current year
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NextStudentIDResponse} "Next code generated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/next-id [get]
func (c *StudentController) NextStudentID(ctx *gin.Context) {
	next, err := c.studentService.NextStudentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NextStudentIDResponse{StudentID: next}))
}
