package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ============ Служебные операции с базой ============

// TestDB проверка подключения к базе
// @Summary Проверка базы данных
// @Tags TestDB
// @Produce json
// @Success 200 {object} dto.Envelope
// @Failure 500 {object} dto.Envelope
// @Router /api/test-db [get]
func (h *Handler) TestDB(c *gin.Context) {
	res := h.Service.TestConnection(c.Request.Context())
	h.writeResult(c, res, http.StatusOK, http.StatusInternalServerError)
}

// SeedDB заполняет базу тестовыми разделами
// @Summary Тестовые данные
// @Description Создаёт разделы Chassis и Interior, если база пуста
// @Tags TestDB
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.Envelope
// @Failure 500 {object} dto.Envelope
// @Router /api/test-db/seed [post]
func (h *Handler) SeedDB(c *gin.Context) {
	res := h.Service.Seed(c.Request.Context())
	h.writeResult(c, res, http.StatusCreated, http.StatusInternalServerError)
}

// ClearDB удаляет все спецификации и разделы
// @Summary Очистка базы
// @Tags TestDB
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=dto.ClearResult}
// @Failure 500 {object} dto.Envelope
// @Router /api/test-db/clear [delete]
func (h *Handler) ClearDB(c *gin.Context) {
	res := h.Service.Clear(c.Request.Context())
	h.writeResult(c, res, http.StatusOK, http.StatusInternalServerError)
}
