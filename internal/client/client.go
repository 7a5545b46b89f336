package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/prompt"
)

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the formula API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type SignupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	HowDidYouFindUs string `json:"howDidYouFindUs"`
	Timestamp       string `json:"timestamp,omitempty"`
	UserAgent       string `json:"userAgent,omitempty"`
	Referrer        string `json:"referrer,omitempty"`
}

type SignupResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Existing bool   `json:"-"`
}

type Action struct {
	UserID    string         `json:"userId"`
	UserEmail string         `json:"userEmail"`
	Type      string         `json:"type"`
	Details   string         `json:"details"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type FormulaRequest struct {
	GeneratorType      model.GeneratorType   `json:"generatorType"`
	Selections         model.Selections      `json:"selections"`
	CustomInstructions string                `json:"customInstructions"`
	UploadedFiles      []model.ProcessedFile `json:"uploadedFiles"`
	Enhance            bool                  `json:"enhance"`
}

type FormulaResponse struct {
	Formula     string              `json:"formula"`
	Analysis    prompt.Analysis     `json:"analysis"`
	Enhancement *prompt.Enhancement `json:"enhancement,omitempty"`
}

// Signup registers the user; Existing is set when the API answered 200 (welcome back)
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	var out SignupResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/api/signup", req, &out)
	if err != nil {
		return nil, err
	}
	out.Existing = status == http.StatusOK
	return &out, nil
}

func (c *Client) TrackAction(ctx context.Context, action Action) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/track-action", action, nil)
	return err
}

func (c *Client) SubscriptionStatus(ctx context.Context, email string) (*model.SubscriptionStatus, error) {
	var out model.SubscriptionStatus
	path := "/api/subscription-status?userEmail=" + url.QueryEscape(email)
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HasActiveSubscription lets the client gate usage on the server's payment records
func (c *Client) HasActiveSubscription(ctx context.Context, email string) (bool, error) {
	status, err := c.SubscriptionStatus(ctx, email)
	if err != nil {
		return false, err
	}
	return status.HasActiveSubscription, nil
}

func (c *Client) Formula(ctx context.Context, req FormulaRequest) (*FormulaResponse, error) {
	var out FormulaResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/prompt/formula", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadReference sends a local image and returns it as a processed file
func (c *Client) UploadReference(ctx context.Context, path string) (*model.ProcessedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/reference-images", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out model.ProcessedFile
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Error
		if msg == "" {
			msg = e.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
