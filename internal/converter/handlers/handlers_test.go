package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomplanner/internal/converter/models"
	"roomplanner/internal/engine/document"
)

const plan = `<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="wall-a" x="0" y="0" width="400" height="20"/>
  <rect id="door-a" x="80" y="0" width="40" height="20"/>
</svg>`

func newApp() *fiber.App {
	h := NewPlanHandler(models.DefaultOptions(), zerolog.Nop())
	app := fiber.New()
	app.Post("/convert", h.ConvertSVG)
	app.Post("/render", h.RenderSVG)
	return app
}

func uploadRequest(t *testing.T, target, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "plan.svg")
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestConvertSVG(t *testing.T) {
	resp, err := newApp().Test(uploadRequest(t, "/convert", plan))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-Plan-Walls"))
	assert.Equal(t, "1", resp.Header.Get("X-Plan-Doors"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := document.Decode(data)
	require.NoError(t, err)
	assert.Len(t, doc.Objects, 2)
}

func TestConvertSVGAsCBOR(t *testing.T) {
	resp, err := newApp().Test(uploadRequest(t, "/convert?format=cbor", plan))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/cbor", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := document.DecodeCBOR(data)
	require.NoError(t, err)
	assert.Len(t, doc.Objects, 2)
}

func TestConvertSVGErrors(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("x"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(uploadRequest(t, "/convert", `<svg><rect id="room" width="1" height="1"/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(uploadRequest(t, "/convert", `<svg><rect`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestConvertSVGRefusesOversizedPlan(t *testing.T) {
	huge := `<svg><rect id="Wall_1" x="0" y="0" width="1e9" height="10"/></svg>`
	resp, err := newApp().Test(uploadRequest(t, "/convert", huge))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "plan too large")
}

func TestRenderSVG(t *testing.T) {
	app := newApp()

	resp, err := app.Test(uploadRequest(t, "/convert", plan))
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	svg, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(svg), `class="wall"`))
	assert.Contains(t, string(svg), `class="door"`)
}

func TestRenderSVGErrors(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/render", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	outdated, err := json.Marshal(map[string]any{"version": 1, "objects": []any{}})
	require.NoError(t, err)
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(outdated)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "outdated scene format", body["error"])
}
