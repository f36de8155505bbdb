package formstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/formbuilder"
)

const msgUnexpected = "An unexpected error occurred"

// HTTPSubmitter отправляет форму в POST /api/form-builder
type HTTPSubmitter struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPSubmitter(baseURL, token string) *HTTPSubmitter {
	return &HTTPSubmitter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSubmitter) CreateFormBuilder(ctx context.Context, fields []dto.SectionWithSpecs) formbuilder.Result {
	res, err := s.post(ctx, fields)
	if err != nil {
		return formbuilder.Result{Success: false, Error: err.Error(), Message: msgUnexpected, Unexpected: true}
	}
	return res
}

func (s *HTTPSubmitter) post(ctx context.Context, fields []dto.SectionWithSpecs) (formbuilder.Result, error) {
	var res formbuilder.Result

	body, err := json.Marshal(fields)
	if err != nil {
		return res, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/api/form-builder", bytes.NewReader(body))
	if err != nil {
		return res, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		res.Unexpected = true
	}
	if !res.Success && res.Error == "" {
		res.Error = http.StatusText(resp.StatusCode)
	}
	return res, nil
}
