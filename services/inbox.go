package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fleetops/models"
	"fleetops/notify"
	"fleetops/ocr"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var inboxExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// InboxProcessor turns scanned documents dropped into a folder into draft
// orders. Each file is handled once; FileLog remembers what was seen.
type InboxProcessor struct {
	DB           *gorm.DB
	Ocr          *OcrService
	Notifier     notify.Notifier
	Log          *zap.Logger
	ProcessedDir string
}

type InboxItem struct {
	Filename   string
	OrderID    uint
	OrderRef   string
	Confidence float64
}

type InboxSummary struct {
	Drafted  []InboxItem
	Skipped  int
	Rejected []string
	Failed   []string
}

// Run processes every image in dir in name order. Per-file failures are logged
// and counted; only an unreadable folder aborts the run.
func (p *InboxProcessor) Run(ctx context.Context, dir string) (InboxSummary, error) {
	var summary InboxSummary

	entries, err := os.ReadDir(dir)
	if err != nil {
		return summary, fmt.Errorf("read inbox %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !inboxExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		item, err := p.processFile(ctx, dir, name)
		switch {
		case errors.Is(err, errAlreadyProcessed):
			summary.Skipped++
		case errors.Is(err, ocr.ErrEmptyImage), errors.Is(err, ocr.ErrUnsupportedImage):
			p.Log.Warn("Inbox file rejected", zap.String("file", name), zap.Error(err))
			summary.Rejected = append(summary.Rejected, name)
		case err != nil:
			p.Log.Error("Inbox file failed", zap.String("file", name), zap.Error(err))
			summary.Failed = append(summary.Failed, name)
		default:
			summary.Drafted = append(summary.Drafted, item)
		}
	}

	if len(summary.Drafted) > 0 && p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, inboxNotification(summary)); err != nil {
			p.Log.Warn("Inbox summary not sent", zap.Error(err))
		}
	}
	return summary, nil
}

var errAlreadyProcessed = errors.New("already processed")

func (p *InboxProcessor) processFile(ctx context.Context, dir, name string) (InboxItem, error) {
	db := p.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.FileLog{}).Where("filename = ?", name).Count(&count).Error; err != nil {
		return InboxItem{}, err
	}
	if count > 0 {
		return InboxItem{}, errAlreadyProcessed
	}

	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return InboxItem{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return InboxItem{}, err
	}

	res, draft, err := p.Ocr.Read(ctx, data)
	if err != nil {
		if errors.Is(err, ocr.ErrEmptyImage) || errors.Is(err, ocr.ErrUnsupportedImage) {
			// never readable, so do not pick it up again
			if logErr := db.Create(&models.FileLog{Filename: name, DateModified: info.ModTime()}).Error; logErr != nil {
				return InboxItem{}, logErr
			}
		}
		return InboxItem{}, err
	}

	scan, err := ScanRecord(name, data, res, draft, 0)
	if err != nil {
		return InboxItem{}, err
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scan).Error; err != nil {
			return err
		}
		order = DraftOrder(draft, scan.ID, 0)
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.FileLog{Filename: name, DateModified: info.ModTime(), OcrScanID: &scan.ID}).Error
	})
	if err != nil {
		return InboxItem{}, err
	}

	if p.ProcessedDir != "" {
		if err := moveFile(path, filepath.Join(p.ProcessedDir, name)); err != nil {
			p.Log.Warn("Inbox file not moved", zap.String("file", name), zap.Error(err))
		}
	}

	p.Log.Info("Inbox file drafted", zap.String("file", name), zap.Uint("order_id", order.ID))
	return InboxItem{
		Filename:   name,
		OrderID:    order.ID,
		OrderRef:   order.RefNo.String(),
		Confidence: res.Confidence,
	}, nil
}

// moveFile renames src to dst, falling back to copy and delete across devices.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	in.Close()
	return os.Remove(src)
}

func inboxNotification(s InboxSummary) notify.Notification {
	var b strings.Builder
	b.WriteString("<html><body><h3>New draft orders from scanned documents</h3><ul>")
	for _, item := range s.Drafted {
		fmt.Fprintf(&b, "<li>%s: order <strong>%s</strong> (confidence %.0f%%)</li>",
			html.EscapeString(item.Filename), item.OrderRef, item.Confidence*100)
	}
	b.WriteString("</ul>")
	if n := len(s.Rejected) + len(s.Failed); n > 0 {
		fmt.Fprintf(&b, "<p>%d file(s) could not be read.</p>", n)
	}
	b.WriteString("<p>This is an auto-generated email. Please confirm each draft before dispatch.</p></body></html>")

	return notify.Notification{
		Subject: fmt.Sprintf("%d draft order(s) from inbox", len(s.Drafted)),
		Text:    fmt.Sprintf("%d draft order(s) created from scanned documents", len(s.Drafted)),
		HTML:    b.String(),
	}
}
