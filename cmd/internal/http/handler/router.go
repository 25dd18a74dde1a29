package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes groups every route handler mounted by Register.
type Routes struct {
	Auth       *DefaultAuthRoute
	Notes      *DefaultNoteRoute
	Tasks      *DefaultTaskRoute
	Categories *DefaultCategoryRoute
}

// Register mounts the API on e. Paths end with a slash, the server is expected
// to run middleware.AddTrailingSlash as a pre-router middleware.
func Register(e *echo.Echo, routes *Routes, authMw echo.MiddlewareFunc) {
	e.GET("/health/", HealthCheck)

	auth := e.Group("/auth")
	auth.POST("/register/", routes.Auth.Register)
	auth.POST("/login/", routes.Auth.Login)
	auth.POST("/logout/", routes.Auth.Logout, authMw)

	notes := e.Group("/notes", authMw)
	notes.GET("/", routes.Notes.GetNotes)
	notes.POST("/", routes.Notes.CreateNote)
	notes.GET("/:id/", routes.Notes.GetNote)
	notes.PUT("/:id/", routes.Notes.ReplaceNote)
	notes.PATCH("/:id/", routes.Notes.UpdateNote)
	notes.DELETE("/:id/", routes.Notes.DeleteNote)

	tasks := e.Group("/tasks", authMw)
	tasks.GET("/", routes.Tasks.GetTasks)
	tasks.POST("/", routes.Tasks.CreateTask)
	tasks.GET("/:id/", routes.Tasks.GetTask)
	tasks.PUT("/:id/", routes.Tasks.ReplaceTask)
	tasks.PATCH("/:id/", routes.Tasks.UpdateTask)
	tasks.DELETE("/:id/", routes.Tasks.DeleteTask)

	categories := e.Group("/categories", authMw)
	categories.GET("/", routes.Categories.GetCategories)
	categories.POST("/", routes.Categories.CreateCategory)
	categories.GET("/:id/", routes.Categories.GetCategory)
	categories.PUT("/:id/", routes.Categories.ReplaceCategory)
	categories.PATCH("/:id/", routes.Categories.UpdateCategory)
	categories.DELETE("/:id/", routes.Categories.DeleteCategory)
}

// HealthCheck backs the container healthcheck.
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
