package dto

import (
	"strings"
	"time"
)

// ============ Общие структуры ============

// Envelope единый формат ответа {success, data|error, message}
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ============ Конструктор форм (Form Builder) ============

type SectionInput struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// Price - указатель, чтобы отличить отсутствующую цену (по умолчанию 0) от явного значения
type SpecificationInput struct {
	Name  string   `json:"name" validate:"required,min=2,max=100"`
	Price *float64 `json:"price" validate:"omitempty,gte=0,lte=999999"`
}

type SectionWithSpecs struct {
	Section        SectionInput         `json:"section"`
	Specifications []SpecificationInput `json:"specifications" validate:"min=1,max=20,dive"`
}

// FormBuilderRequest вся форма целиком: от 1 до 10 разделов
type FormBuilderRequest struct {
	FormFields []SectionWithSpecs `json:"formFields" validate:"min=1,max=10,dive"`
}

func (s SpecificationInput) PriceOrZero() float64 {
	if s.Price == nil {
		return 0
	}
	return *s.Price
}

func Price(v float64) *float64 {
	return &v
}

type SectionResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SpecificationResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	SectionID uint      `json:"sectionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SectionWithSpecsResponse раздел со вложенными спецификациями (GET /api/form-builder)
type SectionWithSpecsResponse struct {
	SectionResponse
	Specifications []SpecificationResponse `json:"specifications"`
}

// CreatedSection результат создания одного раздела (POST /api/form-builder)
type CreatedSection struct {
	Section        SectionResponse         `json:"section"`
	Specifications []SpecificationResponse `json:"specifications"`
}

type ClearResult struct {
	DeletedSpecs    int64 `json:"deletedSpecs"`
	DeletedSections int64 `json:"deletedSections"`
}

type ExportResponse struct {
	Object string `json:"object"`
	URL    string `json:"url"`
}

// ============ Пользователи (Users) ============

type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=100"`
	Name  string `json:"name" validate:"max=100"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// SplitName делит полное имя на имя и фамилию по первому пробелу
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

// ============ Аутентификация ============

type ProfileResponse struct {
	OperatorUUID string `json:"operator_uuid"`
	Role         string `json:"role"`
	ExpiresAt    int64  `json:"expires_at"`
}
