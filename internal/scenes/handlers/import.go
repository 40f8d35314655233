package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"roomplanner/internal/scenes/models"
)

// Import converts an uploaded SVG floor plan through the converter service
// and stores the result as a new scene.
func (h *SceneHandler) Import(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	svg, err := io.ReadAll(file)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	data, err := h.convertSVG(c.Context(), fileHeader.Filename, svg)
	if err != nil {
		h.log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("plan conversion failed")
		var rejected *planRejectedError
		if errors.As(err, &rejected) {
			return c.Status(rejected.status).JSON(fiber.Map{"error": rejected.message})
		}
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	scene := &models.Scene{Name: c.FormValue("name"), Data: data}
	if scene.Name == "" {
		scene.Name = fileHeader.Filename
	}
	if scene.Version, err = dataVersion(data); err != nil {
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.Create(c.Context(), scene); err != nil {
		h.log.Error().Err(err).Msg("create imported scene")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save scene"})
	}

	return c.Status(http.StatusCreated).JSON(models.Created{
		Scene:    *scene,
		FilePath: h.writeFile(scene),
	})
}

// planRejectedError is a 4xx answer from the converter: the upload itself
// is at fault, so the status is passed through.
type planRejectedError struct {
	status  int
	message string
}

func (e *planRejectedError) Error() string {
	return fmt.Sprintf("converter rejected plan (%d): %s", e.status, e.message)
}

// convertSVG posts the plan to the converter's /convert and returns the
// scene document it answers with.
func (h *SceneHandler) convertSVG(ctx context.Context, filename string, svg []byte) ([]byte, error) {
	if h.converterURL == "" {
		return nil, fmt.Errorf("converter url is empty")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(svg); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.converterURL+"/convert", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) != nil || body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &planRejectedError{status: resp.StatusCode, message: body.Error}
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("converter status %d", resp.StatusCode)
	}

	return data, nil
}
