package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"formbuilder/internal/app/dto"

	"github.com/go-playground/validator/v10"
)

// NoIndex ставится в FieldError, когда позиция (раздел/спецификация) не применима
const NoIndex = -1

// FieldError ошибка одного поля формы с привязкой к позиции раздела и спецификации
type FieldError struct {
	Section       int    `json:"section"`
	Specification int    `json:"specification"`
	Field         string `json:"field"`
	Message       string `json:"message"`
}

type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// At возвращает ошибки, относящиеся к указанной позиции
func (e Errors) At(section, specification int) Errors {
	var out Errors
	for _, fe := range e {
		if fe.Section == section && fe.Specification == specification {
			out = append(out, fe)
		}
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках используем имена из json-тегов, как их видит клиент
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize обрезает пробелы в именах и возвращает копию формы
func Normalize(fields []dto.SectionWithSpecs) []dto.SectionWithSpecs {
	out := make([]dto.SectionWithSpecs, len(fields))
	for i, field := range fields {
		out[i].Section.Name = strings.TrimSpace(field.Section.Name)
		out[i].Specifications = make([]dto.SpecificationInput, len(field.Specifications))
		for j, spec := range field.Specifications {
			out[i].Specifications[j] = dto.SpecificationInput{
				Name:  strings.TrimSpace(spec.Name),
				Price: spec.Price,
			}
		}
	}
	return out
}

// ValidateFormFields проверяет форму целиком: 1-10 разделов, в каждом 1-20 спецификаций
func ValidateFormFields(fields []dto.SectionWithSpecs) error {
	if fields == nil {
		fields = []dto.SectionWithSpecs{}
	}
	return translate(validate.Struct(dto.FormBuilderRequest{FormFields: fields}))
}

func ValidateSection(section dto.SectionInput) error {
	section.Name = strings.TrimSpace(section.Name)
	return translate(validate.Struct(section))
}

func ValidateSpecification(spec dto.SpecificationInput) error {
	spec.Name = strings.TrimSpace(spec.Name)
	return translate(validate.Struct(spec))
}

func ValidateUser(req dto.CreateUserRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	return translate(validate.Struct(req))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		section, spec, owner := position(fe.Namespace())
		out = append(out, FieldError{
			Section:       section,
			Specification: spec,
			Field:         fe.Field(),
			Message:       message(owner, fe.Field(), fe.Tag(), fe.Param()),
		})
	}
	return out
}

// position разбирает namespace вида
// FormBuilderRequest.formFields[1].specifications[0].price
// и возвращает индексы раздела и спецификации, а также "владельца" поля
func position(namespace string) (section, spec int, owner string) {
	section, spec = NoIndex, NoIndex
	parts := strings.Split(namespace, ".")
	for _, part := range parts[1:] {
		name, idx := splitIndex(part)
		switch name {
		case "formFields":
			section = idx
		case "specifications":
			spec = idx
		}
	}

	switch {
	case strings.HasPrefix(parts[0], "SectionInput"):
		owner = "section"
	case strings.HasPrefix(parts[0], "SpecificationInput"):
		owner = "specification"
	case strings.HasPrefix(parts[0], "CreateUserRequest"):
		owner = "user"
	case spec != NoIndex:
		owner = "specification"
	case strings.Contains(namespace, ".section."):
		owner = "section"
	}
	return section, spec, owner
}

func splitIndex(part string) (string, int) {
	open := strings.IndexByte(part, '[')
	if open < 0 || !strings.HasSuffix(part, "]") {
		return part, NoIndex
	}
	idx, err := strconv.Atoi(part[open+1 : len(part)-1])
	if err != nil {
		return part[:open], NoIndex
	}
	return part[:open], idx
}

func message(owner, field, tag, param string) string {
	switch field {
	case "formFields":
		if tag == "max" {
			return "Maximum 10 sections allowed"
		}
		return "At least one section is required"
	case "specifications":
		if tag == "max" {
			return "Maximum 20 specifications per section"
		}
		return "At least one specification is required per section"
	case "price":
		if tag == "lte" {
			return "Price cannot exceed $999,999"
		}
		return "Price cannot be negative"
	case "email":
		if tag == "required" {
			return "Email is required"
		}
		if tag == "max" {
			return "Email must be less than 100 characters"
		}
		return "Email is invalid"
	}

	subject := "Name"
	switch owner {
	case "section":
		subject = "Section name"
	case "specification":
		subject = "Specification name"
	}
	switch tag {
	case "required":
		return subject + " is required"
	case "min":
		return subject + " must be at least " + param + " characters"
	case "max":
		return subject + " must be less than " + param + " characters"
	}
	return subject + " is invalid"
}
