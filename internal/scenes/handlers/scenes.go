package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roomplanner/internal/engine/document"
	"roomplanner/internal/scenes/models"
	"roomplanner/internal/scenes/repository"
	"roomplanner/internal/scenes/storage"
)

// ============================================================
// Scene Handler
// ============================================================

type SceneHandler struct {
	repo         *repository.Repository
	storage      *storage.FileStorage
	converterURL string
	client       *http.Client
	log          zerolog.Logger
	now          func() time.Time
}

type Option func(*SceneHandler)

// WithClock sets the clock used for default scene names.
func WithClock(now func() time.Time) Option {
	return func(h *SceneHandler) { h.now = now }
}

// WithHTTPClient sets the client used to reach the converter.
func WithHTTPClient(c *http.Client) Option {
	return func(h *SceneHandler) { h.client = c }
}

func NewSceneHandler(repo *repository.Repository, files *storage.FileStorage, converterURL string, log zerolog.Logger, opts ...Option) *SceneHandler {
	h := &SceneHandler{
		repo:         repo,
		storage:      files,
		converterURL: converterURL,
		client:       &http.Client{Timeout: 30 * time.Second},
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the scene routes on r. Static segments go first so that
// /download/:id is not taken for an id.
func (h *SceneHandler) Register(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/import", h.Import)
	r.Get("/download/:id", h.Download)
	r.Post("/load-file/:id", h.LoadFile)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// List returns scene summaries, most recently updated first.
func (h *SceneHandler) List(c fiber.Ctx) error {
	scenes, err := h.repo.List(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list scenes")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list scenes"})
	}
	return c.JSON(scenes)
}

func (h *SceneHandler) Get(c fiber.Ctx) error {
	scene, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(scene)
}

// Create stores a new scene and its .3dscene file. A file write failure is
// logged only; Download recreates the file on demand.
func (h *SceneHandler) Create(c fiber.Ctx) error {
	req, err := h.payload(c)
	if err != nil {
		return err
	}

	scene := &models.Scene{Name: req.Name, Data: req.Data}
	if scene.Name == "" {
		scene.Name = fmt.Sprintf("Scene %d", h.now().UnixMilli())
	}
	if scene.Version, err = dataVersion(req.Data); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.Create(c.Context(), scene); err != nil {
		h.log.Error().Err(err).Msg("create scene")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save scene"})
	}

	h.log.Info().Str("id", scene.ID).Str("name", scene.Name).Msg("scene created")
	return c.Status(http.StatusCreated).JSON(models.Created{
		Scene:    *scene,
		FilePath: h.writeFile(scene),
	})
}

// Update replaces a scene's data and, when given, its name.
func (h *SceneHandler) Update(c fiber.Ctx) error {
	existing, err := h.lookup(c)
	if err != nil {
		return err
	}
	req, err := h.payload(c)
	if err != nil {
		return err
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	existing.Data = req.Data
	if existing.Version, err = dataVersion(req.Data); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.repo.Update(c.Context(), existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "scene not found"})
		}
		h.log.Error().Err(err).Str("id", existing.ID).Msg("update scene")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save scene"})
	}

	h.writeFile(existing)
	return c.JSON(existing)
}

// Delete removes the record; the file goes best-effort.
func (h *SceneHandler) Delete(c fiber.Ctx) error {
	id, ok := sceneID(c)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "scene not found"})
	}

	if err := h.repo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "scene not found"})
		}
		h.log.Error().Err(err).Str("id", id).Msg("delete scene")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete scene"})
	}

	if err := h.storage.Remove(id); err != nil {
		h.log.Warn().Err(err).Str("id", id).Msg("scene file not removed")
	}
	return c.JSON(fiber.Map{"message": "Scene deleted"})
}

// ============================================================
// Files
// ============================================================

// Download sends the scene's .3dscene file, writing it first if it is
// missing. ?format=cbor sends the scene document in CBOR instead.
func (h *SceneHandler) Download(c fiber.Ctx) error {
	scene, err := h.lookup(c)
	if err != nil {
		return err
	}
	name := h.storage.FileName(scene.ID)

	if c.Query("format") == "cbor" {
		doc, err := document.Decode(scene.Data)
		if err != nil {
			h.log.Error().Err(err).Str("id", scene.ID).Msg("stored scene does not decode")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "stored scene is corrupt"})
		}
		data, err := document.EncodeCBOR(doc)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode scene"})
		}
		c.Attachment(name + ".cbor")
		c.Set(fiber.HeaderContentType, "application/cbor")
		return c.Send(data)
	}

	if !h.storage.Exists(scene.ID) {
		if h.writeFile(scene) == "" {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to write scene file"})
		}
	}

	data, err := h.storage.Read(scene.ID)
	if err != nil {
		h.log.Error().Err(err).Str("id", scene.ID).Msg("read scene file")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read scene file"})
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// LoadFile returns the stored .3dscene file contents.
func (h *SceneHandler) LoadFile(c fiber.Ctx) error {
	id, ok := sceneID(c)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "scene file not found"})
	}

	data, err := h.storage.Read(id)
	if err != nil || !json.Valid(data) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "scene file not found"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// writeFile stores the record as an indented .3dscene file and returns the
// file name, or "" when writing failed.
func (h *SceneHandler) writeFile(scene *models.Scene) string {
	data, err := json.MarshalIndent(scene, "", "  ")
	if err == nil {
		err = h.storage.Save(scene.ID, data)
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", scene.ID).Msg("write scene file")
		return ""
	}
	return h.storage.FileName(scene.ID)
}

// ============================================================
// Helpers
// ============================================================

// lookup and payload fail with *fiber.Error; the app's error handler turns
// those into {"error": ...} bodies.

func (h *SceneHandler) lookup(c fiber.Ctx) (*models.Scene, error) {
	id, ok := sceneID(c)
	if !ok {
		return nil, fiber.NewError(http.StatusNotFound, "scene not found")
	}

	scene, err := h.repo.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(http.StatusNotFound, "scene not found")
		}
		h.log.Error().Err(err).Str("id", id).Msg("get scene")
		return nil, fiber.NewError(http.StatusInternalServerError, "failed to load scene")
	}
	return scene, nil
}

func (h *SceneHandler) payload(c fiber.Ctx) (*models.Payload, error) {
	if len(c.Body()) == 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "empty body")
	}

	var req models.Payload
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		return nil, fiber.NewError(http.StatusBadRequest, "data required")
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, req.Data); err == nil {
		req.Data = compact.Bytes()
	}
	return &req, nil
}

// dataVersion validates data as a scene document and returns its version.
func dataVersion(data json.RawMessage) (int, error) {
	doc, err := document.Decode(data)
	if err != nil {
		return 0, err
	}
	return doc.Version, nil
}

// sceneID accepts only UUIDs, which keeps ids safe to use in file names.
func sceneID(c fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
