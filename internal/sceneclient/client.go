package sceneclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomplanner/internal/engine/document"
	"roomplanner/internal/scenes/models"
)

var ErrNotFound = errors.New("scene not found")

// StatusError is a non-2xx answer from the scenes API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scenes api: status %d", e.Code)
	}
	return fmt.Sprintf("scenes api: status %d: %s", e.Code, e.Message)
}

// ============================================================
// Client
// ============================================================

// Client talks to the scenes API, directly or through the gateway.
// baseURL is the collection URL, e.g. http://localhost:3000/api/v1/scenes.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]models.Summary, error) {
	var out []models.Summary
	if err := c.do(ctx, http.MethodGet, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Scene, error) {
	var out models.Scene
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores doc under name; the server picks a name when it is empty.
func (c *Client) Create(ctx context.Context, name string, doc *document.SceneDocument) (*models.Created, error) {
	body, err := payload(name, doc)
	if err != nil {
		return nil, err
	}
	var out models.Created
	if err := c.do(ctx, http.MethodPost, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id, name string, doc *document.SceneDocument) (*models.Scene, error) {
	body, err := payload(name, doc)
	if err != nil {
		return nil, err
	}
	var out models.Scene
	if err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil, nil)
}

// Download returns the raw .3dscene file, or the CBOR export when cbor is set.
func (c *Client) Download(ctx context.Context, id string, cbor bool) ([]byte, error) {
	path := "/download/" + url.PathEscape(id)
	if cbor {
		path += "?format=cbor"
	}
	var raw bytes.Buffer
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw.Bytes(), nil
}

// ============================================================
// Editor store
// ============================================================

// SaveScene creates a new scene and returns its id.
func (c *Client) SaveScene(ctx context.Context, name string, doc *document.SceneDocument) (string, error) {
	created, err := c.Create(ctx, name, doc)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// LoadScene fetches a scene and decodes its document. Outdated documents
// fail with document.ErrOutdatedFormat.
func (c *Client) LoadScene(ctx context.Context, id string) (*document.SceneDocument, error) {
	scene, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return document.Decode(scene.Data)
}

// ============================================================
// Transport
// ============================================================

func payload(name string, doc *document.SceneDocument) ([]byte, error) {
	data, err := document.Encode(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.Payload{Name: name, Data: data})
}

// do sends the request and decodes a 2xx body into out: a *bytes.Buffer
// receives it raw, anything else is JSON-decoded, nil discards it.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *bytes.Buffer:
		dst.Write(data)
		return nil
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}
