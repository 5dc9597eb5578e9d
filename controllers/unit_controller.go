package controllers

import (
	"errors"
	"fmt"
	"strings"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UnitController struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUnitController(db *gorm.DB, log *zap.Logger) *UnitController {
	return &UnitController{DB: db, Log: log}
}

type unitInput struct {
	Code     string  `json:"code" validate:"required,min=1,max=40"`
	Type     *string `json:"type" validate:"omitempty,max=40"`
	HomeBase *string `json:"homeBase" validate:"omitempty,max=120"`
	Active   *bool   `json:"active"`
}

func (in *unitInput) normalize() {
	in.Code = strings.TrimSpace(in.Code)
	in.Type = trimOptional(in.Type)
	in.HomeBase = trimOptional(in.HomeBase)
}

func (c *UnitController) Create(ctx *fiber.Ctx) error {
	var input unitInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.normalize()
	if details := helpers.Validate(input); details != nil {
		return helpers.ValidationFailed(ctx, details)
	}

	unit := models.Unit{
		Code:      input.Code,
		Type:      input.Type,
		HomeBase:  input.HomeBase,
		Active:    activeOrDefault(input.Active, true),
		CreatedBy: helpers.CurrentUserID(ctx),
	}
	if err := c.DB.WithContext(ctx.UserContext()).Create(&unit).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to create unit", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "unit": dto.UnitDTO(unit)})
}

func (c *UnitController) Update(ctx *fiber.Ctx) error {
	id, ok := helpers.ParamID(ctx)
	if !ok {
		return helpers.BadRequest(ctx, "Invalid ID")
	}
	var input unitInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.normalize()
	if details := helpers.Validate(input); details != nil {
		return helpers.ValidationFailed(ctx, details)
	}

	db := c.DB.WithContext(ctx.UserContext())
	var unit models.Unit
	if err := db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NotFound(ctx, "Unit")
		}
		return helpers.ServerError(ctx, c.Log, "Failed to load unit", err)
	}

	err := db.Model(&unit).Updates(map[string]interface{}{
		"code":       input.Code,
		"type":       input.Type,
		"home_base":  input.HomeBase,
		"active":     activeOrDefault(input.Active, unit.Active),
		"updated_by": helpers.CurrentUserID(ctx),
	}).Error
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to update unit", err)
	}
	return ctx.JSON(fiber.Map{"ok": true})
}

func (c *UnitController) GetAll(ctx *fiber.Ctx) error {
	var units []models.Unit
	if err := c.DB.WithContext(ctx.UserContext()).Order("code asc").Find(&units).Error; err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to list units", err)
	}
	out := make([]dto.Object, len(units))
	for i, u := range units {
		out[i] = dto.UnitDTO(u)
	}
	return ctx.JSON(fiber.Map{"ok": true, "units": out})
}

//==============================================================================
// Begin Upload Unit From Excel
//==============================================================================

type UnitImportResult struct {
	TotalRows     int      `json:"totalRows"`
	SuccessCount  int      `json:"successCount"`
	SkippedCount  int      `json:"skippedCount"`
	ErrorCount    int      `json:"errorCount"`
	SkippedItems  []string `json:"skippedItems"`
	ErrorMessages []string `json:"errorMessages"`
}

// Import reads CODE | TYPE | HOME_BASE | ACTIVE from the first sheet. Codes
// already on the roster are skipped; bad rows are reported and the rest stored.
func (c *UnitController) Import(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		details := helpers.NewValidationDetails()
		details.AddField("file", "Required")
		return helpers.ValidationFailed(ctx, details)
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		return helpers.BadRequest(ctx, "Only Excel files (.xlsx) are allowed")
	}

	fileContent, err := file.Open()
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to open upload", err)
	}
	defer fileContent.Close()

	f, err := excelize.OpenReader(fileContent)
	if err != nil {
		return helpers.BadRequest(ctx, "Failed to read Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return helpers.BadRequest(ctx, "No sheets found in Excel file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to read rows", err)
	}
	if len(rows) < 2 {
		return helpers.BadRequest(ctx, "Excel file must contain header and at least one data row")
	}

	result := UnitImportResult{
		TotalRows:     len(rows) - 1,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}
	userID := helpers.CurrentUserID(ctx)

	err = c.DB.WithContext(ctx.UserContext()).Transaction(func(tx *gorm.DB) error {
		seen := make(map[string]bool)
		for i, row := range rows[1:] {
			rowNum := i + 2

			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			code := strings.TrimSpace(row[0])
			unit := models.Unit{
				Code:      code,
				Type:      trimOptional(cell(row, 1)),
				HomeBase:  trimOptional(cell(row, 2)),
				CreatedBy: userID,
			}
			active, ok := parseActive(derefOr(cell(row, 3), ""))
			if !ok {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: ACTIVE must be yes/no, got '%s'", rowNum, *cell(row, 3)))
				continue
			}
			unit.Active = active
			if len(code) > 40 {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: CODE longer than 40 characters", rowNum))
				continue
			}

			var count int64
			if err := tx.Model(&models.Unit{}).Where("code = ?", code).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 || seen[code] {
				result.SkippedCount++
				result.SkippedItems = append(result.SkippedItems, code)
				continue
			}

			if err := tx.Create(&unit).Error; err != nil {
				return fmt.Errorf("row %d: %w", rowNum, err)
			}
			seen[code] = true
			result.SuccessCount++
		}
		return nil
	})
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to import units", err)
	}

	c.Log.Info("Units imported",
		zap.Int("created", result.SuccessCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("errors", result.ErrorCount),
	)
	return ctx.JSON(fiber.Map{
		"ok": true,
		"message": fmt.Sprintf("Upload completed: %d success, %d skipped, %d errors",
			result.SuccessCount, result.SkippedCount, result.ErrorCount),
		"result": result,
	})
}

func cell(row []string, i int) *string {
	if i >= len(row) {
		return nil
	}
	return &row[i]
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func parseActive(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "yes", "y", "true", "1", "active":
		return true, true
	case "no", "n", "false", "0", "inactive":
		return false, true
	}
	return false, false
}

//==============================================================================
// End Upload Unit From Excel
//==============================================================================
