package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Rifat402/courses-app/docs" // registers the swagger spec
	"github.com/Rifat402/courses-app/internal/app/controllers"
)

// SetupRouter configures all application routes under basePath
func SetupRouter(
	router *gin.Engine,
	basePath string,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
) {
	api := router.Group(basePath)

	// Collection resource
	courses := api.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.POST("", courseController.CreateCourse)

		// Item resource
		courses.GET("/:id", courseController.GetCourse)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)
	}

	api.GET("/health", healthController.Health)
}

// SetupSwagger serves the API docs at /swagger/index.html
func SetupSwagger(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(1),
	))
}
