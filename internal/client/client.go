package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
)

// Endpoint paths on the office backend.
const (
	pathCheckAuth      = "/api/check_auth"
	pathImportCase     = "/api/import_from_uyap"
	pathUploadDocument = "/api/upload_uyap_document"
	pathCaseDetails    = "/get_case_details"
	pathTariffs        = "/api/tarifeler"
	pathSaveTariffs    = "/api/kaydet_kaplan_danismanlik_tarife"
)

// Client talks to the office case-management backend. The session is
// cookie-based: the backend identifies the user from the browser session it
// shares with the web app.
type Client struct {
	http   *resty.Client
	logger *logger.Logger
}

// AuthStatus is the backend's authentication report.
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
	User          *struct {
		Name string `json:"name"`
	} `json:"user,omitempty"`
}

// ImportResult is the backend's answer to an import request.
type ImportResult struct {
	Success bool   `json:"success"`
	CaseID  string `json:"case_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func New(baseURL string, importTimeout time.Duration, log *logger.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(importTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, logger: log}
}

// SetAPIURL repoints the client, used when the stored settings change.
func (c *Client) SetAPIURL(baseURL string) {
	c.http.SetBaseURL(baseURL)
}

// CheckAuth asks the backend whether the current session is signed in.
func (c *Client) CheckAuth(ctx context.Context) (AuthStatus, error) {
	var status AuthStatus

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&status).
		Get(pathCheckAuth)
	if err != nil {
		return status, fmt.Errorf("auth check failed: %w", err)
	}
	if !resp.IsSuccess() {
		return status, fmt.Errorf("auth check returned %s", resp.Status())
	}

	return status, nil
}

// ImportCase pushes one mapped case record. A non-2xx response and a
// success=false payload are both import failures.
func (c *Client) ImportCase(ctx context.Context, record model.SystemRecord) (ImportResult, error) {
	var result ImportResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(record).
		SetResult(&result).
		SetError(&result).
		Post(pathImportCase)
	if err != nil {
		return result, fmt.Errorf("import request failed: %w", err)
	}
	if !resp.IsSuccess() {
		if result.Message != "" {
			return result, fmt.Errorf("import rejected: %s", result.Message)
		}
		return result, fmt.Errorf("import returned %s", resp.Status())
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = result.Message
		}
		return result, fmt.Errorf("import unsuccessful: %s", msg)
	}

	return result, nil
}

// UploadDocument sends one downloaded portal document as multipart form
// data under the imported case.
func (c *Client) UploadDocument(ctx context.Context, caseID string, doc model.MappedDocument, data []byte) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("document", doc.FileName, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"document_type": doc.DocumentType,
			"document_date": doc.UploadDate,
		}).
		Post(fmt.Sprintf("%s/%s", pathUploadDocument, caseID))
	if err != nil {
		return fmt.Errorf("document upload failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("document upload returned %s", resp.Status())
	}

	return nil
}

// GetCaseDetails fetches the backend's own detail record for a case.
func (c *Client) GetCaseDetails(ctx context.Context, caseID string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/%s", pathCaseDetails, caseID))
	if err != nil {
		return nil, fmt.Errorf("case details request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("case details returned %s", resp.Status())
	}

	return json.RawMessage(resp.Body()), nil
}

// GetTariffs fetches the office's consulting tariff structure.
func (c *Client) GetTariffs(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(pathTariffs)
	if err != nil {
		return nil, fmt.Errorf("tariff request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("tariff request returned %s", resp.Status())
	}

	return json.RawMessage(resp.Body()), nil
}

// SaveTariffs replaces the stored tariff structure wholesale; the backend
// has no partial update.
func (c *Client) SaveTariffs(ctx context.Context, body json.RawMessage) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(pathSaveTariffs)
	if err != nil {
		return fmt.Errorf("tariff save failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("tariff save returned %s", resp.Status())
	}

	return nil
}
