package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"fleetops/models"
	"fleetops/ocr"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type OcrService struct {
	engine  ocr.Engine
	timeout time.Duration
	log     *zap.Logger
}

func NewOcrService(engine ocr.Engine, timeout time.Duration, log *zap.Logger) *OcrService {
	return &OcrService{engine: engine, timeout: timeout, log: log}
}

// Read recognizes one document and parses it into an order draft. Bad uploads
// fail with ocr.ErrEmptyImage or ocr.ErrUnsupportedImage.
func (s *OcrService) Read(ctx context.Context, image []byte) (ocr.Result, ocr.OrderDraft, error) {
	start := time.Now()
	res, err := ocr.Recognize(ctx, s.engine, image, s.timeout)
	if err != nil {
		return ocr.Result{}, ocr.OrderDraft{}, err
	}
	draft := ocr.ParseOrder(res.Text)

	s.log.Info("Document recognized",
		zap.String("engine", res.Engine),
		zap.Float64("confidence", res.Confidence),
		zap.Int("text_length", len(res.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, draft, nil
}

// ScanRecord builds the audit row for a recognized document.
func ScanRecord(filename string, image []byte, res ocr.Result, draft ocr.OrderDraft, userID int) (models.OcrScan, error) {
	parsed, err := json.Marshal(draft)
	if err != nil {
		return models.OcrScan{}, fmt.Errorf("encode draft: %w", err)
	}
	sum := sha256.Sum256(image)
	return models.OcrScan{
		Filename:   filename,
		SHA256:     hex.EncodeToString(sum[:]),
		Engine:     res.Engine,
		Confidence: res.Confidence,
		Text:       res.Text,
		Parsed:     datatypes.JSON(parsed),
		CreatedBy:  userID,
	}, nil
}

// DraftOrder turns a parsed draft into an unconfirmed order linked to its scan.
func DraftOrder(draft ocr.OrderDraft, scanID uint, userID int) models.Order {
	order := models.Order{
		Status:        models.OrderStatusDraft,
		Source:        models.OrderSourceOCR,
		PickupStart:   draft.PickupStart,
		PickupEnd:     draft.PickupEnd,
		DeliveryStart: draft.DeliveryStart,
		DeliveryEnd:   draft.DeliveryEnd,
		TruckType:     draft.TruckType,
		Reference:     draft.Reference,
		Notes:         draft.Notes,
		OcrScanID:     &scanID,
		CreatedBy:     userID,
	}
	if draft.Customer != nil {
		order.Customer = *draft.Customer
	}
	if draft.Origin != nil {
		order.Origin = *draft.Origin
	}
	if draft.Destination != nil {
		order.Destination = *draft.Destination
	}
	return order
}
