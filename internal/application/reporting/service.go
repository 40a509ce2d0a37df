// Package reporting renders catalog exports: material CSV and text data
// sheets, and comparison workbooks and reports. Rendered artifacts can be
// archived to object storage and announced on the event bus.
package reporting

import (
	"context"
	"time"

	"github.com/turtacn/AgriMat-Platform/internal/application/comparison"
	"github.com/turtacn/AgriMat-Platform/internal/application/events"
	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/storage/minio"
)

// Export kinds and formats.
const (
	KindMaterial   = "material"
	KindComparison = "comparison"

	FormatCSV    = "csv"
	FormatReport = "txt"
	FormatXLSX   = "xlsx"
)

// Content types of the export formats.
const (
	ContentTypeCSV    = "text/csv; charset=utf-8"
	ContentTypeReport = "text/plain; charset=utf-8"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Artifact is one rendered export. Archive is set when it was stored.
type Artifact struct {
	Kind        string               `json:"kind"`
	Format      string               `json:"format"`
	Filename    string               `json:"filename"`
	ContentType string               `json:"contentType"`
	Data        []byte               `json:"-"`
	MaterialIDs []string             `json:"materialIds"`
	Archive     *minio.ArchiveResult `json:"archive,omitempty"`
}

// Archiver is implemented by *minio.ExportArchive.
type Archiver interface {
	Store(ctx context.Context, req *minio.ArchiveRequest) (*minio.ArchiveResult, error)
}

// Service renders exports.
type Service struct {
	store    *catalog.Store
	archiver Archiver
	emitter  *events.Emitter
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithArchiver uploads every artifact. Upload failures are logged and the
// artifact is still returned.
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

func WithEmitter(e *events.Emitter) Option {
	return func(s *Service) { s.emitter = e }
}

func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store *catalog.Store, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaterialCSV exports material id as CSV.
func (s *Service) MaterialCSV(ctx context.Context, id string) (*Artifact, error) {
	m, err := s.store.GetMaterial(id)
	if err != nil {
		return nil, err
	}
	data, err := MaterialCSV(m)
	if err != nil {
		s.metrics.RecordExport(KindMaterial, FormatCSV, 0, err)
		return nil, err
	}
	return s.finish(ctx, &Artifact{
		Kind:        KindMaterial,
		Format:      FormatCSV,
		Filename:    MaterialFilename(m, FormatCSV),
		ContentType: ContentTypeCSV,
		Data:        data,
		MaterialIDs: []string{m.ID},
	}), nil
}

// MaterialReport exports the paginated text data sheet of material id.
func (s *Service) MaterialReport(ctx context.Context, id string) (*Artifact, error) {
	m, err := s.store.GetMaterial(id)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, &Artifact{
		Kind:        KindMaterial,
		Format:      FormatReport,
		Filename:    MaterialFilename(m, FormatReport),
		ContentType: ContentTypeReport,
		Data:        MaterialReport(m, s.now()),
		MaterialIDs: []string{m.ID},
	}), nil
}

// ComparisonReport exports v as a paginated text report.
func (s *Service) ComparisonReport(ctx context.Context, v *comparison.View) (*Artifact, error) {
	return s.finish(ctx, &Artifact{
		Kind:        KindComparison,
		Format:      FormatReport,
		Filename:    s.comparisonFilename(FormatReport),
		ContentType: ContentTypeReport,
		Data:        ComparisonReport(v.Materials, v.Table, v.Scores, s.now()),
		MaterialIDs: v.MaterialIDs,
	}), nil
}

// ComparisonWorkbook exports v as an XLSX workbook.
func (s *Service) ComparisonWorkbook(ctx context.Context, v *comparison.View) (*Artifact, error) {
	data, err := ComparisonWorkbook(v.Materials, v.Table, v.Scores)
	if err != nil {
		s.metrics.RecordExport(KindComparison, FormatXLSX, 0, err)
		s.logger.Error("workbook export failed", logging.Err(err))
		return nil, err
	}
	return s.finish(ctx, &Artifact{
		Kind:        KindComparison,
		Format:      FormatXLSX,
		Filename:    s.comparisonFilename(FormatXLSX),
		ContentType: ContentTypeXLSX,
		Data:        data,
		MaterialIDs: v.MaterialIDs,
	}), nil
}

func (s *Service) comparisonFilename(ext string) string {
	return "material_comparison_" + s.now().Format("20060102_150405") + "." + ext
}

// finish archives and announces a rendered artifact. Neither step can fail
// the export.
func (s *Service) finish(ctx context.Context, a *Artifact) *Artifact {
	if a.MaterialIDs == nil {
		a.MaterialIDs = []string{}
	}
	s.metrics.RecordExport(a.Kind, a.Format, len(a.Data), nil)

	if s.archiver != nil {
		res, err := s.archiver.Store(ctx, &minio.ArchiveRequest{
			Kind:        a.Kind,
			Extension:   a.Format,
			ContentType: a.ContentType,
			Data:        a.Data,
			Metadata:    map[string]string{"filename": a.Filename},
		})
		if err != nil {
			s.logger.Warn("export archive failed",
				logging.String("kind", a.Kind),
				logging.String("format", a.Format),
				logging.Err(err))
			s.metrics.RecordError("reporting", "archive")
		} else {
			a.Archive = res
		}
	}

	payload := kafka.ExportGeneratedPayload{
		Kind:        a.Kind,
		Format:      a.Format,
		MaterialIDs: a.MaterialIDs,
		Size:        int64(len(a.Data)),
	}
	if a.Archive != nil {
		payload.ObjectKey = a.Archive.ObjectKey
		payload.URL = a.Archive.URL
	}
	s.emitter.Emit(ctx, kafka.TopicExportGenerated, a.Kind, payload)

	s.logger.Debug("export rendered",
		logging.String("kind", a.Kind),
		logging.String("format", a.Format),
		logging.Int("bytes", len(a.Data)))
	return a
}
