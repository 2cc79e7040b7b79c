package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/controllers"
	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	studentController *controllers.StudentController,
	statisticsController *controllers.StatisticsController,
	securityLogController *controllers.SecurityLogController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		// Student routes, available to every authenticated user.
		// Fixed paths like /statistics take precedence over the :id wildcard.
		students := authenticated.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.GET("/statistics", statisticsController.GetStatistics)
			students.GET("/next-id", studentController.NextStudentID)
			students.GET("/:id", studentController.GetStudent)
			students.POST("", studentController.CreateStudent)
			students.PUT("/:id", studentController.UpdateStudent)

			// Deletion is admin-only
			studentsAdmin := students.Group("")
			studentsAdmin.Use(authMiddleware.RequireRole(models.RoleAdmin))
			{
				studentsAdmin.DELETE("/:id", studentController.DeleteStudent)
			}
		}

		// User routes. Read and update decide permissions in the service
		// layer (self or admin); deletion is gated here.
		users := authenticated.Group("/users")
		{
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)

			usersAdmin := users.Group("")
			usersAdmin.Use(authMiddleware.RequireRole(models.RoleAdmin))
			{
				usersAdmin.DELETE("/:id", userController.DeleteUser)
			}
		}

		// Audit trail, admin-only
		securityLogs := authenticated.Group("/security-logs")
		securityLogs.Use(authMiddleware.RequireRole(models.RoleAdmin))
		{
			securityLogs.GET("", securityLogController.ListSecurityLogs)
		}
	}
}
