package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/memberdir/memberdir-backend/internal/bulk"
	"github.com/memberdir/memberdir-backend/internal/config"
	"github.com/memberdir/memberdir-backend/internal/dto"
	"github.com/memberdir/memberdir-backend/internal/services"
)

type BulkHandler struct {
	bulkService *services.BulkService
	cfg         *config.Config
}

func NewBulkHandler(bulkService *services.BulkService, cfg *config.Config) *BulkHandler {
	return &BulkHandler{bulkService: bulkService, cfg: cfg}
}

// Upload handles POST /members/bulk: one multipart "file" plus an
// optional dryRun query flag.
func (h *BulkHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No file provided",
		})
	}

	// size is bounded before any parsing happens
	if fileHeader.Size > int64(h.cfg.BulkMaxUploadBytes) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error:   true,
			Message: fmt.Sprintf("File exceeds the %d byte upload limit", h.cfg.BulkMaxUploadBytes),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}
	defer file.Close()

	dryRun := c.QueryBool("dryRun", false)

	resp, err := h.bulkService.Process(file, dryRun)
	if err != nil {
		if errors.Is(err, bulk.ErrMissingColumns) || errors.Is(err, services.ErrEmptySheet) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("bulk upload failed", "error", err, "action", "bulk_upload", "dry_run", dryRun)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Bulk upload failed; no changes were applied",
		})
	}

	return c.JSON(resp)
}

// Template handles GET /members/excel-template?mode=blank|data.
func (h *BulkHandler) Template(c *fiber.Ctx) error {
	mode := c.Query("mode", "blank")
	if mode != "blank" && mode != "data" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "mode must be blank or data",
		})
	}

	artifact, err := h.bulkService.Template(mode, c.Query("downloadedBy"))
	if err != nil {
		slog.Error("template render failed", "error", err, "action", "bulk_template", "mode", mode)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate template",
		})
	}

	filename := "member_template.xlsx"
	if mode == "data" {
		filename = "member_data.xlsx"
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(artifact)
}
