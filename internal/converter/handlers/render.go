package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"roomplanner/internal/converter/mapper"
	"roomplanner/internal/engine/document"
)

// RenderSVG draws a scene document as a top-down SVG plan.
func (h *PlanHandler) RenderSVG(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body required",
		})
	}

	doc, err := document.Decode(c.Body())
	if err != nil {
		h.log.Debug().Err(err).Msg("render decode failed")
		msg := "invalid scene document"
		if errors.Is(err, document.ErrOutdatedFormat) {
			msg = "outdated scene format"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	svg, err := mapper.NewRenderer(h.opts).Render(doc)
	if err != nil {
		h.log.Warn().Err(err).Msg("render failed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}
