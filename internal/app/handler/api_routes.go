package handler

import (
	"formbuilder/internal/app/role"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все REST API маршруты с авторизацией
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	anyRole := h.Auth.WithAuthCheck(role.Viewer, role.Operator, role.Admin)
	editors := h.Auth.WithAuthCheck(role.Operator, role.Admin)
	admins := h.Auth.WithAuthCheck(role.Admin)

	api := router.Group("/api")

	// ============ Конструктор форм ============
	formBuilder := api.Group("/form-builder")
	{
		formBuilder.GET("", anyRole, h.GetFormBuilder)
		formBuilder.POST("", editors, h.CreateFormBuilder)
		formBuilder.POST("/export", editors, h.ExportFormBuilder)
	}

	// ============ Служебные операции с базой ============
	testDB := api.Group("/test-db")
	{
		testDB.GET("", h.TestDB)
		testDB.POST("/seed", editors, h.SeedDB)
		testDB.DELETE("/clear", admins, h.ClearDB) // только для администраторов
	}

	// ============ Пользователи ============
	users := api.Group("/users")
	{
		users.GET("", anyRole, h.GetUsers)
		users.GET("/by-email", anyRole, h.GetUserByEmail)
		users.POST("", admins, h.CreateUser)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	auth.Use(anyRole)
	{
		auth.GET("/profile", h.GetProfile)
		auth.POST("/logout", h.LogoutUser)
	}

	router.GET("/ping", h.Ping)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
