package handler

import (
	"errors"
	"net/http"
	"strings"

	"formbuilder/internal/app/ds"
	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/repository"
	"formbuilder/internal/app/validation"

	"github.com/gin-gonic/gin"
)

var errUserExists = errors.New("user with this email already exists")

// ============ Пользователи ============

// CreateUser создание пользователя
// @Summary Создание пользователя
// @Description Email обязателен и уникален, имя делится на first_name/last_name по первому пробелу
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Данные пользователя"
// @Success 201 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 500 {object} dto.Envelope
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := validation.ValidateUser(req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err, "Invalid user data")
		return
	}
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)

	ctx := c.Request.Context()
	exists, err := h.Repository.UserExistsByEmail(ctx, email)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err, "Failed to create user")
		return
	}
	if exists {
		h.errorResponse(c, http.StatusBadRequest, errUserExists, "Failed to create user")
		return
	}

	user, err := h.Repository.CreateUser(ctx, email, name)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err, "Failed to create user")
		return
	}

	h.successResponse(c, http.StatusCreated, "User created", userResponse(*user))
}

// GetUsers список пользователей
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=[]dto.UserResponse}
// @Failure 500 {object} dto.Envelope
// @Router /api/users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.Repository.GetAllUsers(c.Request.Context())
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err, "Failed to fetch users")
		return
	}

	data := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, userResponse(user))
	}
	h.successResponse(c, http.StatusOK, "", data)
}

// GetUserByEmail поиск пользователя по email
// @Summary Пользователь по email
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email query string true "Email пользователя"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 500 {object} dto.Envelope
// @Router /api/users/by-email [get]
func (h *Handler) GetUserByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		h.errorResponse(c, http.StatusBadRequest, errors.New("email query parameter is required"), "Invalid request")
		return
	}

	user, err := h.Repository.GetUserByEmail(c.Request.Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		h.errorResponse(c, http.StatusNotFound, err, "User not found")
		return
	}
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err, "Failed to fetch user")
		return
	}

	h.successResponse(c, http.StatusOK, "", userResponse(*user))
}

func userResponse(u ds.User) dto.UserResponse {
	first, last := dto.SplitName(u.Name)
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		FirstName: first,
		LastName:  last,
		CreatedAt: u.CreatedAt,
	}
}
