package handlers

import (
	"context"
	"firewatch/config"
	"firewatch/db"
	"firewatch/layout"
	"firewatch/logger"
	"firewatch/models"
	"firewatch/render"
	"firewatch/report"
	"firewatch/resolve"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OpenFunc opens the record source for one build.
type OpenFunc func(ctx context.Context) (db.Source, error)

// ReportHandler builds and writes patrol reports.
type ReportHandler struct {
	cfg  *config.Config
	open OpenFunc
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewReportHandler(cfg *config.Config, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{
		cfg: cfg,
		open: func(ctx context.Context) (db.Source, error) {
			return db.Open(ctx, cfg, log)
		},
		log: log,
		now: time.Now,
	}
}

// WithSource replaces how the record source is opened.
func (h *ReportHandler) WithSource(open OpenFunc) *ReportHandler {
	h.open = open
	return h
}

// WithClock replaces the clock used for the generation date.
func (h *ReportHandler) WithClock(now func() time.Time) *ReportHandler {
	h.now = now
	return h
}

// Result describes a written report.
type Result struct {
	BuildID    string
	Path       string
	Pages      int
	Provenance report.Provenance
}

// Generate builds the report for userID and writes it into the output directory. Missing or malformed
// data never fails a build; only writing the file can.
func (h *ReportHandler) Generate(ctx context.Context, userID string) (*Result, error) {
	buildID := uuid.NewString()
	log := h.log.WithFields(logrus.Fields{"build_id": buildID, "user_id": userID})
	now := h.now()

	log.Info("🚀 Generating patrol report")
	ds := h.loadDataset(ctx, log)

	model, prov := report.Assemble(resolve.New(log), log, userID, ds, now)
	if prov.Synthetic() {
		log.Warn("⚠️  No records matched, report contains demo data only")
	}

	blocks := layout.NewEngine(layout.Options{
		ImagesDir:      h.cfg.Report.ImagesDir,
		LogoCandidates: h.cfg.Report.LogoPaths,
		MaxImagePixels: h.cfg.Report.MaxImagePixels,
	}, log).Build(model)

	path := filepath.Join(h.cfg.Report.OutputDir, ReportFileName(userID, now))
	meta := render.Meta{
		Title:   fmt.Sprintf("%s - %s", h.cfg.Report.Title, strings.TrimSpace(userID)),
		Author:  h.cfg.Report.Brand,
		Created: now,
	}

	var pages int
	err := writeFileAtomic(path, func(w io.Writer) error {
		n, err := render.NewRenderer().Render(w, blocks, h.cfg.Report.Brand, meta)
		pages = n
		return err
	})
	if err != nil {
		log.WithError(err).Error("❌ Failed to write report")
		return nil, fmt.Errorf("failed to write report %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{"path": path, "pages": pages}).Info("✅ Report written")
	logger.Audit(log, userID, logger.ActionReportGenerated, fmt.Sprintf("Report '%s' generated (%d pages)", filepath.Base(path), pages))

	return &Result{BuildID: buildID, Path: path, Pages: pages, Provenance: prov}, nil
}

// loadDataset opens the source for this build only and closes it before returning.
func (h *ReportHandler) loadDataset(ctx context.Context, log logrus.FieldLogger) models.Dataset {
	src, err := h.open(ctx)
	if err != nil {
		log.WithError(err).Warn("⚠️  Record source unavailable, continuing without records")
		return models.Dataset{}
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.WithError(err).Warn("⚠️  Failed to close record source")
		}
	}()
	return db.LoadDataset(ctx, src, log)
}
