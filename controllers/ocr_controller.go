package controllers

import (
	"errors"
	"io"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/ocr"
	"fleetops/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxScanBytes bounds a single uploaded document.
const maxScanBytes = 20 << 20

type OcrController struct {
	DB      *gorm.DB
	Log     *zap.Logger
	Service *services.OcrService
}

func NewOcrController(db *gorm.DB, log *zap.Logger, service *services.OcrService) *OcrController {
	return &OcrController{DB: db, Log: log, Service: service}
}

// ParseOrder recognizes an uploaded scan and returns the order fields it could
// read. Nothing is created except the scan's audit row; the client confirms the
// draft through POST /orders with ocrScanId.
func (c *OcrController) ParseOrder(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fileError(ctx, "Required")
	}
	if fileHeader.Size > maxScanBytes {
		return fileError(ctx, "File is too large")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to open upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to read upload", err)
	}

	res, draft, err := c.Service.Read(ctx.UserContext(), data)
	switch {
	case errors.Is(err, ocr.ErrEmptyImage):
		return fileError(ctx, "File is empty")
	case errors.Is(err, ocr.ErrUnsupportedImage):
		return fileError(ctx, "Not a supported image")
	case err != nil:
		return helpers.ServerError(ctx, c.Log, "Recognition failed", err)
	}

	scan, err := services.ScanRecord(fileHeader.Filename, data, res, draft, helpers.CurrentUserID(ctx))
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to record scan", err)
	}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&scan).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to record scan", err)
	}

	return ctx.JSON(fiber.Map{
		"ok":             true,
		"ocrConfidence":  res.Confidence,
		"confidenceBand": ocr.ConfidenceBand(res.Confidence),
		"text":           res.Text,
		"parsed":         dto.StripDecimalsDeep(draft),
		"scanId":         scan.ID,
	})
}

func fileError(ctx *fiber.Ctx, msg string) error {
	details := helpers.NewValidationDetails()
	details.AddField("file", msg)
	return helpers.ValidationFailed(ctx, details)
}
