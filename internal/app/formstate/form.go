// Package formstate - состояние формы на стороне клиента: упорядоченные разделы,
// в каждом упорядоченные спецификации, и отправка формы целиком.
package formstate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/formbuilder"
	"formbuilder/internal/app/validation"
)

var (
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrIncomplete       = errors.New("form is incomplete")
	ErrSubmitFailed     = errors.New("submit failed")
	ErrOutOfRange       = errors.New("index out of range")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidPrice     = errors.New("price must be a number")
)

const (
	FieldName  = "name"
	FieldPrice = "price"
)

// Submitter отправляет форму: formbuilder.Service напрямую или HTTPSubmitter
type Submitter interface {
	CreateFormBuilder(ctx context.Context, fields []dto.SectionWithSpecs) formbuilder.Result
}

type Specification struct {
	Name  string
	Price float64
}

type Section struct {
	Name           string
	Specifications []Specification
}

type Form struct {
	mu         sync.Mutex
	sections   []Section
	message    string
	submitting bool
}

func New() *Form {
	return &Form{}
}

// AppendSection добавляет пустой раздел с одной пустой спецификацией, возвращает его индекс
func (f *Form) AppendSection() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return 0, ErrSubmitInProgress
	}
	f.sections = append(f.sections, Section{
		Specifications: []Specification{{}},
	})
	return len(f.sections) - 1, nil
}

func (f *Form) RemoveSection(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkSection(i); err != nil {
		return err
	}
	f.sections = append(f.sections[:i], f.sections[i+1:]...)
	return nil
}

// AppendSpecification добавляет пустую спецификацию (цена 0) в раздел i
func (f *Form) AppendSpecification(i int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkSection(i); err != nil {
		return 0, err
	}
	f.sections[i].Specifications = append(f.sections[i].Specifications, Specification{})
	return len(f.sections[i].Specifications) - 1, nil
}

func (f *Form) RemoveSpecification(i, j int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkSpecification(i, j); err != nil {
		return err
	}
	specs := f.sections[i].Specifications
	f.sections[i].Specifications = append(specs[:j], specs[j+1:]...)
	return nil
}

func (f *Form) SetSectionName(i int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkSection(i); err != nil {
		return err
	}
	f.sections[i].Name = value
	return nil
}

// SetSpecificationField меняет имя или цену спецификации. Пустая цена - 0
func (f *Form) SetSpecificationField(i, j int, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkSpecification(i, j); err != nil {
		return err
	}
	spec := &f.sections[i].Specifications[j]

	switch field {
	case FieldName:
		spec.Name = value
	case FieldPrice:
		value = strings.TrimSpace(value)
		if value == "" {
			spec.Price = 0
			return nil
		}
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidPrice, value)
		}
		spec.Price = price
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Sections копия текущего состояния
func (f *Form) Sections() []Section {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSections(f.sections)
}

// Errors ошибки валидации текущего состояния по индексам; nil если форма корректна
func (f *Form) Errors() validation.Errors {
	f.mu.Lock()
	fields := toFields(f.sections)
	f.mu.Unlock()

	var verrs validation.Errors
	if err := validation.ValidateFormFields(validation.Normalize(fields)); err != nil {
		errors.As(err, &verrs)
	}
	return verrs
}

func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submit проверяет форму и отправляет её один раз.
// При успехе состояние очищается, сообщение остаётся; при ошибке состояние сохраняется
func (f *Form) Submit(ctx context.Context, s Submitter) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	if msg := incomplete(f.sections); msg != "" {
		f.message = msg
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrIncomplete, msg)
	}

	fields := validation.Normalize(toFields(f.sections))
	if err := validation.ValidateFormFields(fields); err != nil {
		f.message = "Error: " + err.Error()
		f.mu.Unlock()
		return err
	}

	f.submitting = true
	f.message = ""
	f.mu.Unlock()

	res := submit(ctx, s, fields)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if !res.Success {
		f.message = "Error: " + res.Error
		return fmt.Errorf("%w: %s", ErrSubmitFailed, res.Error)
	}
	f.message = res.Message
	f.sections = nil
	return nil
}

// submit не даёт панике отправителя оставить форму в состоянии отправки
func submit(ctx context.Context, s Submitter, fields []dto.SectionWithSpecs) (res formbuilder.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = formbuilder.Result{Success: false, Error: "An unexpected error occurred"}
		}
	}()
	return s.CreateFormBuilder(ctx, fields)
}

// incomplete структурные проверки до валидации
func incomplete(sections []Section) string {
	if len(sections) == 0 {
		return "Please add at least one section"
	}
	for _, section := range sections {
		if strings.TrimSpace(section.Name) == "" {
			return "Please provide names for all sections"
		}
	}
	for _, section := range sections {
		for _, spec := range section.Specifications {
			if strings.TrimSpace(spec.Name) == "" {
				return fmt.Sprintf("Please provide names for all specifications in %q", section.Name)
			}
		}
	}
	return ""
}

// checkSection заодно запрещает правки, пока форма отправляется
func (f *Form) checkSection(i int) error {
	if f.submitting {
		return ErrSubmitInProgress
	}
	if i < 0 || i >= len(f.sections) {
		return fmt.Errorf("%w: section %d", ErrOutOfRange, i)
	}
	return nil
}

func (f *Form) checkSpecification(i, j int) error {
	if err := f.checkSection(i); err != nil {
		return err
	}
	if j < 0 || j >= len(f.sections[i].Specifications) {
		return fmt.Errorf("%w: specification %d of section %d", ErrOutOfRange, j, i)
	}
	return nil
}

func toFields(sections []Section) []dto.SectionWithSpecs {
	fields := make([]dto.SectionWithSpecs, len(sections))
	for i, section := range sections {
		fields[i].Section = dto.SectionInput{Name: section.Name}
		fields[i].Specifications = make([]dto.SpecificationInput, len(section.Specifications))
		for j, spec := range section.Specifications {
			fields[i].Specifications[j] = dto.SpecificationInput{
				Name:  spec.Name,
				Price: dto.Price(spec.Price),
			}
		}
	}
	return fields
}

func cloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, section := range sections {
		out[i] = Section{
			Name:           section.Name,
			Specifications: append([]Specification(nil), section.Specifications...),
		}
	}
	return out
}
