package handlers

import (
	"bytes"
	"html/template"
	"os"

	"github.com/gofiber/fiber/v3"
	"gopkg.in/yaml.v3"
)

// ============================================================
// API docs
// ============================================================

const defaultTitle = "Room Planner API"

var uiPage = template.Must(template.New("ui").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`))

// Docs serves an OpenAPI document and a Swagger UI page for it. The file
// is read on every request so edits show up without a restart.
type Docs struct {
	specPath string
	specURL  string
}

func NewDocs(specPath, specURL string) *Docs {
	return &Docs{specPath: specPath, specURL: specURL}
}

type openAPIHeader struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
}

func (d *Docs) load() ([]byte, openAPIHeader, error) {
	var hdr openAPIHeader
	data, err := os.ReadFile(d.specPath)
	if err != nil {
		return nil, hdr, err
	}
	if err := yaml.Unmarshal(data, &hdr); err != nil {
		return nil, hdr, err
	}
	return data, hdr, nil
}

// Spec serves the raw YAML. A missing or unparsable file is a 500.
func (d *Docs) Spec(c fiber.Ctx) error {
	data, hdr, err := d.load()
	if err != nil || hdr.OpenAPI == "" {
		return fiber.NewError(fiber.StatusInternalServerError, "spec not found")
	}
	c.Type("yaml")
	return c.Send(data)
}

// UI renders Swagger UI titled after the document's info.title.
func (d *Docs) UI(c fiber.Ctx) error {
	title := defaultTitle
	if _, hdr, err := d.load(); err == nil && hdr.Info.Title != "" {
		title = hdr.Info.Title
	}

	var buf bytes.Buffer
	if err := uiPage.Execute(&buf, struct{ Title, SpecURL string }{title, d.specURL}); err != nil {
		return err
	}
	c.Type("html")
	return c.Send(buf.Bytes())
}
