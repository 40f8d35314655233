package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// hop-by-hop and length headers are set by fiber itself
var skipResponseHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

var forwardRequestHeaders = []string{"Authorization", "Accept", "X-Request-ID"}

// ============================================================
// Proxy Handler
// ============================================================

type Proxy struct {
	client *http.Client
	log    zerolog.Logger
}

func New(client *http.Client, log zerolog.Logger) *Proxy {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Proxy{client: client, log: log}
}

// To proxies to a fixed upstream URL, keeping the query string.
func (p *Proxy) To(targetURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.Forward(c, withQuery(c, targetURL))
	}
}

// Prefix proxies everything below the route's wildcard to base, so
// /api/v1/scenes/download/42 reaches base+"/download/42".
func (p *Proxy) Prefix(base string) fiber.Handler {
	base = strings.TrimRight(base, "/")
	return func(c fiber.Ctx) error {
		target := base
		if rest := c.Params("*"); rest != "" {
			target += "/" + rest
		}
		return p.Forward(c, withQuery(c, target))
	}
}

// Forward proxies the current request to targetURL, re-encoding multipart
// bodies and passing anything else through unchanged.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	contentType := c.Get("Content-Type")
	p.log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("target", targetURL).
		Int("bytes", len(c.Body())).
		Msg("proxy")

	var (
		body io.Reader
		err  error
	)
	if strings.HasPrefix(contentType, "multipart/form-data") {
		body, contentType, err = multipartBody(c)
		if err != nil {
			p.log.Warn().Err(err).Msg("invalid multipart data")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
		}
	} else if len(c.Body()) > 0 {
		body = bytes.NewReader(c.Body())
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		p.log.Error().Err(err).Msg("build request")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, h := range forwardRequestHeaders {
		if v := c.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error().Err(err).Str("target", targetURL).Msg("upstream unreachable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

func multipartBody(c fiber.Ctx) (io.Reader, string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				return nil, "", fmt.Errorf("open %s: %w", fileHeader.Filename, err)
			}

			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
			if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
				h.Set("Content-Type", ct)
			}

			part, err := writer.CreatePart(h)
			if err == nil {
				_, err = io.Copy(part, file)
			}
			file.Close()
			if err != nil {
				return nil, "", fmt.Errorf("copy %s: %w", fileHeader.Filename, err)
			}
		}
	}

	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Error().Err(err).Msg("read upstream response")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !skipResponseHeaders[key] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}

func withQuery(c fiber.Ctx, target string) string {
	if q := string(c.Request().URI().QueryString()); q != "" {
		return target + "?" + q
	}
	return target
}

// ============================================================
// Upstream health
// ============================================================

// Upstream pings a service's liveness probe; it satisfies health.Pinger.
type Upstream struct {
	Name   string
	URL    string
	Client *http.Client
}

func (u Upstream) PingContext(ctx context.Context) error {
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(u.URL, "/")+"/health/live", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", u.Name, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", u.Name, resp.StatusCode)
	}
	return nil
}
