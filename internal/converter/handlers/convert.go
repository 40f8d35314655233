package handlers

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"roomplanner/internal/converter/graph"
	"roomplanner/internal/converter/mapper"
	"roomplanner/internal/converter/models"
	"roomplanner/internal/engine/document"
)

// ============================================================
// Plan Handlers
// ============================================================

type PlanHandler struct {
	opts models.Options
	log  zerolog.Logger
}

func NewPlanHandler(opts models.Options, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{opts: opts, log: log}
}

// ConvertSVG turns an uploaded SVG plan into a scene document.
// ?format=cbor answers with the binary encoding.
func (h *PlanHandler) ConvertSVG(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		h.log.Debug().Err(err).Msg("form file missing")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	h.log.Info().Str("file", file.Filename).Int("bytes", len(data)).Msg("converting plan")

	res, err := mapper.New(h.opts, h.log).Convert(bytes.NewReader(data))
	if err != nil {
		status := fiber.StatusUnprocessableEntity
		switch {
		case errors.Is(err, mapper.ErrNoWalls):
			status = fiber.StatusBadRequest
		case errors.Is(err, graph.ErrPlanTooLarge):
			status = fiber.StatusRequestEntityTooLarge
		}
		h.log.Warn().Err(err).Msg("conversion failed")
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("X-Plan-Walls", strconv.Itoa(res.Report.Walls))
	c.Set("X-Plan-Doors", strconv.Itoa(res.Report.Doors))

	if c.Query("format") == "cbor" {
		body, err := document.EncodeCBOR(res.Document)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to encode document",
			})
		}
		c.Set(fiber.HeaderContentType, "application/cbor")
		return c.Send(body)
	}
	return c.JSON(res.Document)
}
