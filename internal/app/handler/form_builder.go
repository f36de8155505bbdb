package handler

import (
	"net/http"

	"formbuilder/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// ============ Конструктор форм ============

// CreateFormBuilder создаёт разделы со спецификациями
// @Summary Создание разделов формы
// @Description Принимает массив разделов, в каждом от 1 до 20 спецификаций. Разделы создаются по порядку
// @Tags FormBuilder
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []dto.SectionWithSpecs true "Разделы со спецификациями"
// @Success 201 {object} dto.Envelope{data=[]dto.CreatedSection}
// @Failure 400 {object} dto.Envelope
// @Failure 500 {object} dto.Envelope
// @Router /api/form-builder [post]
func (h *Handler) CreateFormBuilder(c *gin.Context) {
	var fields []dto.SectionWithSpecs
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	res := h.Service.CreateFormBuilder(c.Request.Context(), fields)
	h.writeResult(c, res, http.StatusCreated, http.StatusBadRequest)
}

// GetFormBuilder список разделов со спецификациями
// @Summary Список разделов
// @Description Все разделы по времени создания, спецификации внутри раздела по id
// @Tags FormBuilder
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=[]dto.SectionWithSpecsResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 500 {object} dto.Envelope
// @Router /api/form-builder [get]
func (h *Handler) GetFormBuilder(c *gin.Context) {
	res := h.Service.GetAllSectionsWithSpecs(c.Request.Context())
	h.writeResult(c, res, http.StatusOK, http.StatusBadRequest)
}

// ExportFormBuilder выгрузка разделов в объектное хранилище
// @Summary Выгрузка разделов
// @Description Сохраняет текущий список разделов в MinIO и возвращает временную ссылку
// @Tags FormBuilder
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.Envelope{data=dto.ExportResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/form-builder/export [post]
func (h *Handler) ExportFormBuilder(c *gin.Context) {
	res := h.Service.Export(c.Request.Context())
	h.writeResult(c, res, http.StatusCreated, http.StatusBadRequest)
}
