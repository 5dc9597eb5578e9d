package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewOrderController(db *gorm.DB, log *zap.Logger) *OrderController {
	return &OrderController{DB: db, Log: log}
}

type orderInput struct {
	Customer      string     `json:"customer" validate:"required,max=160"`
	Origin        string     `json:"origin" validate:"required,max=255"`
	Destination   string     `json:"destination" validate:"required,max=255"`
	PickupStart   *time.Time `json:"pickupStart"`
	PickupEnd     *time.Time `json:"pickupEnd"`
	DeliveryStart *time.Time `json:"deliveryStart"`
	DeliveryEnd   *time.Time `json:"deliveryEnd"`
	TruckType     *string    `json:"truckType" validate:"omitempty,max=40"`
	Reference     *string    `json:"reference" validate:"omitempty,max=80"`
	Notes         *string    `json:"notes"`
	OcrScanID     *uint      `json:"ocrScanId"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft confirmed"`
}

func (in *orderInput) normalize() {
	in.Customer = strings.TrimSpace(in.Customer)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	in.TruckType = trimOptional(in.TruckType)
	in.Reference = trimOptional(in.Reference)
	in.Notes = trimOptional(in.Notes)
	for _, t := range []**time.Time{&in.PickupStart, &in.PickupEnd, &in.DeliveryStart, &in.DeliveryEnd} {
		if *t != nil {
			utc := (*t).UTC()
			*t = &utc
		}
	}
	if in.Status == "" {
		in.Status = models.OrderStatusConfirmed
	}
}

// checkWindows adds an error for every window that ends before it starts or
// has an end without a start.
func (in *orderInput) checkWindows(details *helpers.ValidationDetails) {
	check := func(startField, endField string, start, end *time.Time) {
		if end == nil {
			return
		}
		if start == nil {
			details.AddField(startField, "Required when "+endField+" is set")
			return
		}
		if end.Before(*start) {
			details.AddField(endField, "Must not be before "+startField)
		}
	}
	check("pickupStart", "pickupEnd", in.PickupStart, in.PickupEnd)
	check("deliveryStart", "deliveryEnd", in.DeliveryStart, in.DeliveryEnd)
}

func (c *OrderController) Create(ctx *fiber.Ctx) error {
	var input orderInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.normalize()
	details := helpers.Validate(input)
	if details == nil {
		details = helpers.NewValidationDetails()
	}
	input.checkWindows(details)

	db := c.DB.WithContext(ctx.UserContext())
	source := models.OrderSourceManual
	if input.OcrScanID != nil {
		source = models.OrderSourceOCR
		var count int64
		if err := db.Model(&models.OcrScan{}).Where("id = ?", *input.OcrScanID).Count(&count).Error; err != nil {
			return helpers.ServerError(ctx, c.Log, "Failed to load scan", err)
		}
		if count == 0 {
			details.AddField("ocrScanId", "Scan does not exist")
		}
	}
	if !details.Empty() {
		return helpers.ValidationFailed(ctx, details)
	}

	order := models.Order{
		Status:        input.Status,
		Source:        source,
		Customer:      input.Customer,
		Origin:        input.Origin,
		Destination:   input.Destination,
		PickupStart:   input.PickupStart,
		PickupEnd:     input.PickupEnd,
		DeliveryStart: input.DeliveryStart,
		DeliveryEnd:   input.DeliveryEnd,
		TruckType:     input.TruckType,
		Reference:     input.Reference,
		Notes:         input.Notes,
		OcrScanID:     input.OcrScanID,
		CreatedBy:     helpers.CurrentUserID(ctx),
	}
	if err := db.Create(&order).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to create order", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "order": dto.OrderDTO(order)})
}

func (c *OrderController) findOrders(ctx *fiber.Ctx) ([]models.Order, error) {
	query := c.DB.WithContext(ctx.UserContext()).Order("created_at desc").Order("id desc")
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := ctx.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}
	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

func (c *OrderController) GetAll(ctx *fiber.Ctx) error {
	orders, err := c.findOrders(ctx)
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to list orders", err)
	}
	out := make([]dto.Object, len(orders))
	for i, o := range orders {
		out[i] = dto.OrderDTO(o)
	}
	return ctx.JSON(fiber.Map{"ok": true, "orders": out})
}

func (c *OrderController) GetByID(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	var order models.Order
	if err := c.DB.WithContext(ctx.UserContext()).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Order")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load order", err)
	}
	return ctx.JSON(fiber.Map{"ok": true, "order": dto.OrderDTO(order)})
}

var orderExportHeader = []interface{}{
	"Ref No", "Status", "Source", "Customer", "Origin", "Destination",
	"Pickup Start", "Pickup End", "Delivery Start", "Delivery End",
	"Truck Type", "Reference", "Created At",
}

// Export sends the filtered orders as an xlsx workbook.
func (c *OrderController) Export(ctx *fiber.Ctx) error {
	orders, err := c.findOrders(ctx)
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to list orders", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	if err := f.SetSheetRow(sheet, "A1", &orderExportHeader); err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to build workbook", err)
	}
	for i, o := range orders {
		row := []interface{}{
			o.RefNo.String(), o.Status, o.Source, o.Customer, o.Origin, o.Destination,
			timeCell(o.PickupStart), timeCell(o.PickupEnd),
			timeCell(o.DeliveryStart), timeCell(o.DeliveryEnd),
			derefOr(o.TruckType, ""), derefOr(o.Reference, ""),
			dto.FormatTime(o.CreatedAt),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return helpers.ServerError(ctx, c.Log, "Failed to build workbook", err)
		}
	}

	return sendWorkbook(ctx, c.Log, "orders.xlsx", f)
}

type workbook interface {
	WriteTo(w io.Writer, opts ...excelize.Options) (int64, error)
}

// sendWorkbook buffers the whole file before touching the response, so a
// failed write still answers with the usual error body.
func sendWorkbook(ctx *fiber.Ctx, log *zap.Logger, name string, wb workbook) error {
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return helpers.ServerError(ctx, log, "Failed to write workbook", err)
	}
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	return ctx.Send(buf.Bytes())
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dto.FormatTime(*t)
}
