// Package api is the fetch gateway to the remote inventory API. It owns the
// HTTP plumbing and the {success, message, ...} envelope contract; everything
// above it works with decoded domain types and typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Client issues requests against one upstream base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a gateway client for baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// call performs one JSON round trip and decodes the envelope into out.
// Non-2xx responses that still carry a decodable envelope become APIErrors,
// matching the upstream habit of pairing 4xx statuses with envelope messages.
func (c *Client) call(ctx context.Context, op, method, path string, body any, out response) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, URL: path, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &FetchError{Op: op, URL: c.baseURL + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out response) error {
	if c.logger != nil {
		c.logger.Debug("api request", "op", op, "method", req.Method, "url", req.URL.String())
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FetchError{Op: op, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	decodeErr := json.NewDecoder(resp.Body).Decode(out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil {
			if _, msg := out.status(); msg != "" {
				return &APIError{Op: op, Message: msg}
			}
		}
		return &FetchError{Op: op, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return &FetchError{Op: op, URL: req.URL.String(), Err: fmt.Errorf("decoding response: %w", decodeErr)}
	}
	if ok, msg := out.status(); !ok {
		return &APIError{Op: op, Message: msg}
	}
	return nil
}

// ListProjects returns all projects visible to the current user.
func (c *Client) ListProjects(ctx context.Context) ([]catalog.Project, error) {
	var out projectsResponse
	if err := c.call(ctx, "list projects", http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, name, description string) error {
	body := map[string]string{"name": name, "description": description}
	var out struct{ envelope }
	return c.call(ctx, "create project", http.MethodPost, "/api/projects", body, &out)
}

// ListProducts returns the products of a project in server order.
func (c *Client) ListProducts(ctx context.Context, projectID int64) ([]catalog.Product, error) {
	var out productsResponse
	path := fmt.Sprintf("/api/projects/%d/products", projectID)
	if err := c.call(ctx, "list products", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// CreateProduct creates a product under a project, or reports that one with
// the same name already exists. Both outcomes leave a usable product behind;
// any other failure is returned as an error.
func (c *Client) CreateProduct(ctx context.Context, projectID int64, name string) (CreateOutcome, error) {
	body := map[string]string{"name": name}
	var out struct{ envelope }
	path := fmt.Sprintf("/api/projects/%d/products", projectID)
	err := c.call(ctx, "create product", http.MethodPost, path, body, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, duplicateMarker) {
			return OutcomeAlreadyExists, nil
		}
		return 0, err
	}
	return OutcomeCreated, nil
}

// ListSKCs returns a product's SKCs. A non-empty status is passed through as a
// server-side filter; callers must not rely on it for correctness.
func (c *Client) ListSKCs(ctx context.Context, productID int64, status skc.Status) ([]skc.SKC, error) {
	path := fmt.Sprintf("/api/products/%d/skcs", productID)
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var out skcsResponse
	if err := c.call(ctx, "list skcs", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.SKCs, nil
}

// AddSKCs attaches codes to a product with the given status and returns the
// number actually added (codes already known upstream are skipped there).
func (c *Client) AddSKCs(ctx context.Context, productID int64, codes []string, status skc.Status) (int, error) {
	body := map[string]any{"skc_codes": codes, "status": status}
	var out addSKCsResponse
	path := fmt.Sprintf("/api/products/%d/skcs", productID)
	if err := c.call(ctx, "add skcs", http.MethodPost, path, body, &out); err != nil {
		return 0, err
	}
	return out.AddedCount, nil
}

// BatchUpdateStatus applies one status to every code in a single request.
// Unknown codes are silently ignored by the server contract.
func (c *Client) BatchUpdateStatus(ctx context.Context, codes []string, status skc.Status) (int, error) {
	body := map[string]any{"skc_codes": codes, "status": status}
	var out batchUpdateResponse
	if err := c.call(ctx, "batch update skcs", http.MethodPut, "/api/skcs/batch_update", body, &out); err != nil {
		return 0, err
	}
	return out.UpdatedCount, nil
}

// BatchDelete removes every code in a single request; unknown codes are
// silently ignored.
func (c *Client) BatchDelete(ctx context.Context, codes []string) (int, error) {
	body := map[string]any{"skc_codes": codes}
	var out batchDeleteResponse
	if err := c.call(ctx, "batch delete skcs", http.MethodDelete, "/api/skcs/batch_delete", body, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// ListImages returns a product's images, primary first.
func (c *Client) ListImages(ctx context.Context, productID int64) ([]catalog.Image, error) {
	var out imagesResponse
	path := fmt.Sprintf("/api/products/%d/images", productID)
	if err := c.call(ctx, "list images", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// UploadImage uploads image content for a product as multipart form data.
func (c *Client) UploadImage(ctx context.Context, productID int64, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return &FetchError{Op: "upload image", Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &FetchError{Op: "upload image", Err: err}
	}
	if err := mw.Close(); err != nil {
		return &FetchError{Op: "upload image", Err: err}
	}

	path := fmt.Sprintf("/api/products/%d/images", productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &FetchError{Op: "upload image", URL: c.baseURL + path, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct{ envelope }
	return c.do("upload image", req, &out)
}

// SetPrimaryImage marks an image as its product's primary. The server clears
// the previous primary; last write wins.
func (c *Client) SetPrimaryImage(ctx context.Context, imageID int64) error {
	var out struct{ envelope }
	path := fmt.Sprintf("/api/images/%d/primary", imageID)
	return c.call(ctx, "set primary image", http.MethodPut, path, nil, &out)
}

// DeleteImage removes an image permanently.
func (c *Client) DeleteImage(ctx context.Context, imageID int64) error {
	var out struct{ envelope }
	path := fmt.Sprintf("/api/images/%d", imageID)
	return c.call(ctx, "delete image", http.MethodDelete, path, nil, &out)
}

// UserStats returns the dashboard header counts.
func (c *Client) UserStats(ctx context.Context) (catalog.Stats, error) {
	var out statsResponse
	if err := c.call(ctx, "load stats", http.MethodGet, "/api/stats/user", nil, &out); err != nil {
		return catalog.Stats{}, err
	}
	return out.Stats, nil
}

// ExportProject asks the server to build an export for a project and returns
// the export id. Fetching the produced file is the caller's business.
func (c *Client) ExportProject(ctx context.Context, projectID int64) (int64, error) {
	var out exportResponse
	path := fmt.Sprintf("/api/projects/%d/export", projectID)
	if err := c.call(ctx, "export project", http.MethodPost, path, nil, &out); err != nil {
		return 0, err
	}
	return out.Export.ID, nil
}

// ExportDownloadURL returns the download location for a finished export.
func (c *Client) ExportDownloadURL(exportID int64) string {
	return fmt.Sprintf("%s/api/exports/%d/download", c.baseURL, exportID)
}
