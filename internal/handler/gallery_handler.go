package handler

import (
	"errors"
	"io"

	"momentocake-admin/internal/middleware"
	"momentocake-admin/internal/model"
	"momentocake-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GalleryHandler struct {
	service service.GalleryService
}

func NewGalleryHandler(s service.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: s}
}

// UploadImage accepts a multipart upload and stores it in object storage
// POST /api/v1/gallery/images
func (h *GalleryHandler) UploadImage(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing 'image' form field"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}

	var tagIDs []uuid.UUID
	for _, raw := range c.Request().PostArgs().PeekMulti("tag_ids") {
		tagID, err := uuid.Parse(string(raw))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid tag ID"})
		}
		tagIDs = append(tagIDs, tagID)
	}

	req := &service.UploadImageRequest{
		Filename: fileHeader.Filename,
		Data:     data,
		Caption:  c.FormValue("caption"),
		TagIDs:   tagIDs,
	}

	image, err := h.service.UploadImage(c.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImage), errors.Is(err, service.ErrImageTooLarge):
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTagNotFound):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Image uploaded",
		"data":    image,
	})
}

// GetImages lists gallery images, optionally filtered by tag
// GET /api/v1/gallery/images?tag_id=
func (h *GalleryHandler) GetImages(c *fiber.Ctx) error {
	var tagID *uuid.UUID
	if raw := c.Query("tag_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid tag ID"})
		}
		tagID = &parsed
	}

	images, err := h.service.GetImages(tagID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch images"})
	}
	return c.JSON(images)
}

// GetImage returns a single image record
// GET /api/v1/gallery/images/:id
func (h *GalleryHandler) GetImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid image ID"})
	}

	image, err := h.service.GetImage(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Image not found"})
	}
	return c.JSON(image)
}

// UpdateImageRequest carries the editable image metadata
type UpdateImageRequest struct {
	Caption string      `json:"caption"`
	TagIDs  []uuid.UUID `json:"tag_ids"`
}

// UpdateImage edits caption and tags
// PUT /api/v1/gallery/images/:id
func (h *GalleryHandler) UpdateImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid image ID"})
	}

	var req UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	image, err := h.service.UpdateImage(id, req.Caption, req.TagIDs, actor)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Image updated",
		"data":    image,
	})
}

// DeleteImage removes the image record, the stored object and every
// folder reference
// DELETE /api/v1/gallery/images/:id
func (h *GalleryHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid image ID"})
	}

	if err := h.service.DeleteImage(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}

// CreateTag handles tag creation
// POST /api/v1/gallery/tags
func (h *GalleryHandler) CreateTag(c *fiber.Ctx) error {
	var tag model.ImageTag
	if err := c.BodyParser(&tag); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.CreateTag(&tag, actor); err != nil {
		if errors.Is(err, service.ErrTagNameTaken) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Tag created",
		"data":    tag,
	})
}

// GetTags lists all tags
// GET /api/v1/gallery/tags
func (h *GalleryHandler) GetTags(c *fiber.Ctx) error {
	tags, err := h.service.GetTags()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tags"})
	}
	return c.JSON(tags)
}

// UpdateTag edits a tag
// PUT /api/v1/gallery/tags/:id
func (h *GalleryHandler) UpdateTag(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid tag ID"})
	}

	var req model.ImageTag
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	tag, err := h.service.UpdateTag(id, &req, actor)
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Tag updated",
		"data":    tag,
	})
}

// DeleteTag removes a tag; images referencing it keep a dangling ID
// readers skip
// DELETE /api/v1/gallery/tags/:id
func (h *GalleryHandler) DeleteTag(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid tag ID"})
	}

	if err := h.service.DeleteTag(id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Tag deleted"})
}

// CreateFolder handles folder creation
// POST /api/v1/gallery/folders
func (h *GalleryHandler) CreateFolder(c *fiber.Ctx) error {
	var folder model.ImageFolder
	if err := c.BodyParser(&folder); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.CreateFolder(&folder, actor); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Folder created",
		"data":    folder,
	})
}

// GetFolders lists all folders (admin view, including private ones)
// GET /api/v1/gallery/folders
func (h *GalleryHandler) GetFolders(c *fiber.Ctx) error {
	folders, err := h.service.GetFolders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch folders"})
	}
	return c.JSON(folders)
}

// GetFolder returns a single folder
// GET /api/v1/gallery/folders/:id
func (h *GalleryHandler) GetFolder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid folder ID"})
	}

	folder, err := h.service.GetFolder(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Folder not found"})
	}
	return c.JSON(folder)
}

// UpdateFolder edits a folder
// PUT /api/v1/gallery/folders/:id
func (h *GalleryHandler) UpdateFolder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid folder ID"})
	}

	var req model.ImageFolder
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	folder, err := h.service.UpdateFolder(id, &req, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFolderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCoverNotInFolder):
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Folder updated",
		"data":    folder,
	})
}

// DeleteFolder removes a folder; the referenced images survive
// DELETE /api/v1/gallery/folders/:id
func (h *GalleryHandler) DeleteFolder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid folder ID"})
	}

	if err := h.service.DeleteFolder(id); err != nil {
		if errors.Is(err, service.ErrFolderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Folder deleted"})
}

// GetPublicFolders serves the unauthenticated gallery: public folders
// only, internal fields stripped
// GET /api/v1/public/gallery
func (h *GalleryHandler) GetPublicFolders(c *fiber.Ctx) error {
	folders, err := h.service.GetPublicFolders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gallery"})
	}
	return c.JSON(folders)
}

// GetPublicFolder serves one public folder
// GET /api/v1/public/gallery/:id
func (h *GalleryHandler) GetPublicFolder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid folder ID"})
	}

	folder, err := h.service.GetPublicFolder(id)
	if err != nil {
		// Private folders are indistinguishable from missing ones
		return c.Status(404).JSON(fiber.Map{"error": "Folder not found"})
	}
	return c.JSON(folder)
}
