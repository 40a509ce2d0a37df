// Package comparison drives the material comparison view: it keeps the
// per-session selection and turns it into a table and a radar series.
package comparison

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/turtacn/AgriMat-Platform/internal/application/events"
	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	domain "github.com/turtacn/AgriMat-Platform/internal/domain/comparison"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/database/redis"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Selection change actions reported in selection.changed events.
const (
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionToggle  = "toggle"
	ActionClear   = "clear"
	ActionReplace = "replace"
)

// View is everything the comparison page renders for one selection.
type View struct {
	SessionID   string              `json:"sessionId,omitempty"`
	MaterialIDs []string            `json:"materialIds"`
	Materials   []*catalog.Material `json:"materials"`
	Max         int                 `json:"max"`
	Table       []domain.Section    `json:"table"`
	Scores      domain.RadarSeries  `json:"scores"`
	Cached      bool                `json:"cached"`
}

// SelectionStore is implemented by *session.Manager.
type SelectionStore interface {
	Get(id string) (*session.Session, error)
	UpdateSelection(id string, fn func(*domain.Selection) error) (*session.Session, error)
	MaxSelection() int
}

// Service computes comparison views.
type Service struct {
	store    *catalog.Store
	sessions SelectionStore
	groups   []catalog.GroupName
	metrics  []domain.MetricSpec

	cache    redis.Cache
	cacheTTL time.Duration
	emitter  *events.Emitter
	stats    *prometheus.AppMetrics
	logger   logging.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithScoreCache caches radar series for ttl.
func WithScoreCache(c redis.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithEmitter(e *events.Emitter) Option {
	return func(s *Service) { s.emitter = e }
}

func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.stats = m }
}

// WithScoreMetrics replaces domain.DefaultMetrics as the radar axes.
func WithScoreMetrics(metrics []domain.MetricSpec) Option {
	return func(s *Service) { s.metrics = metrics }
}

// NewService builds a Service. sessions may be nil for stateless use through
// Compare only.
func NewService(store *catalog.Store, sessions SelectionStore, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		store:    store,
		sessions: sessions,
		groups:   catalog.AllGroups,
		metrics:  domain.DefaultMetrics,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Stateless
// ─────────────────────────────────────────────────────────────────────────────

// Compare builds the view of ids without touching any session. Duplicates are
// dropped; more than max distinct ids is an InvalidSelection error. groups
// restricts the table to those attribute groups, in the given order; none
// means every group.
func (s *Service) Compare(ctx context.Context, ids []string, max int, groups ...catalog.GroupName) (*View, error) {
	sel := domain.NewSelection(max)
	if err := sel.Replace(ids); err != nil {
		s.stats.RecordSelectionRejected("limit")
		return nil, err
	}
	if len(groups) == 0 {
		groups = s.groups
	}
	return s.build(ctx, "", sel, groups)
}

// ─────────────────────────────────────────────────────────────────────────────
// Session backed
// ─────────────────────────────────────────────────────────────────────────────

// Current returns the view of the session's selection. An empty selection
// yields an empty table and series, not an error.
func (s *Service) Current(ctx context.Context, sessionID string) (*View, error) {
	if s.sessions == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "sessions are not available")
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess.ID, sess.Selection)
}

// Add appends materialID. Unknown materials are NotFound; a full selection is
// InvalidSelection carrying the limit notice and leaves the selection as is.
func (s *Service) Add(ctx context.Context, sessionID, materialID string) (*View, error) {
	if _, err := s.store.GetMaterial(materialID); err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, ActionAdd, materialID, func(sel *domain.Selection) error {
		return sel.Add(materialID)
	})
}

// Toggle flips materialID in or out of the selection.
func (s *Service) Toggle(ctx context.Context, sessionID, materialID string) (*View, error) {
	if _, err := s.store.GetMaterial(materialID); err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, ActionToggle, materialID, func(sel *domain.Selection) error {
		_, err := sel.Toggle(materialID)
		return err
	})
}

// Remove drops materialID. Removing an unselected id is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, materialID string) (*View, error) {
	return s.update(ctx, sessionID, ActionRemove, materialID, func(sel *domain.Selection) error {
		sel.Remove(materialID)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.update(ctx, sessionID, ActionClear, "", func(sel *domain.Selection) error {
		sel.Clear()
		return nil
	})
}

// Replace sets the whole selection. Every id must exist.
func (s *Service) Replace(ctx context.Context, sessionID string, ids []string) (*View, error) {
	if _, err := s.store.GetMaterials(ids); err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, ActionReplace, "", func(sel *domain.Selection) error {
		return sel.Replace(ids)
	})
}

func (s *Service) update(ctx context.Context, sessionID, action, materialID string, fn func(*domain.Selection) error) (*View, error) {
	if s.sessions == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "sessions are not available")
	}
	sess, err := s.sessions.UpdateSelection(sessionID, fn)
	if err != nil {
		if errors.IsInvalidSelection(err) {
			s.stats.RecordSelectionRejected("limit")
			s.logger.Info("selection rejected",
				logging.String("session_id", sessionID),
				logging.String("material_id", materialID),
				logging.Int("max", s.sessions.MaxSelection()))
		}
		return nil, err
	}

	s.emitter.Emit(ctx, kafka.TopicSelectionChanged, sess.ID, kafka.SelectionChangedPayload{
		SessionID:   sess.ID,
		Action:      action,
		MaterialID:  materialID,
		MaterialIDs: sess.SelectedIDs(),
	})
	return s.view(ctx, sess.ID, sess.Selection)
}

// ─────────────────────────────────────────────────────────────────────────────
// Computation
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) view(ctx context.Context, sessionID string, sel *domain.Selection) (*View, error) {
	return s.build(ctx, sessionID, sel, s.groups)
}

func (s *Service) build(ctx context.Context, sessionID string, sel *domain.Selection, groups []catalog.GroupName) (*View, error) {
	if sel == nil {
		sel = domain.NewSelection(0)
	}
	ids := sel.IDs()
	materials, err := s.store.GetMaterials(ids)
	if err != nil {
		return nil, err
	}

	v := &View{
		SessionID:   sessionID,
		MaterialIDs: ids,
		Materials:   materials,
		Max:         sel.Max(),
	}
	if len(materials) == 0 {
		v.Table = []domain.Section{}
		v.Scores = domain.ComputeScores(nil, s.metrics)
		return v, nil
	}

	start := time.Now()
	v.Table = domain.BuildTable(materials, groups)
	v.Scores, v.Cached = s.scores(ctx, materials)
	source := "computed"
	if v.Cached {
		source = "cache"
	}
	s.stats.RecordComparison(source, len(materials), time.Since(start))
	return v, nil
}

// scores returns the radar series, through the cache when one is configured.
// A cache failure falls back to computing directly.
func (s *Service) scores(ctx context.Context, materials []*catalog.Material) (domain.RadarSeries, bool) {
	compute := func() domain.RadarSeries { return domain.ComputeScores(materials, s.metrics) }
	if s.cache == nil {
		return compute(), false
	}

	ids := make([]string, len(materials))
	for i, m := range materials {
		ids[i] = m.ID
	}
	var series domain.RadarSeries
	hit, err := s.cache.GetOrSet(ctx, ScoreCacheKey(ids, s.metrics), &series, s.cacheTTL, func(context.Context) (interface{}, error) {
		return compute(), nil
	})
	s.stats.RecordCacheAccess("scores", hit)
	if err != nil {
		s.logger.Warn("score cache failed, computing directly", logging.Err(err))
		return compute(), false
	}
	return series, hit
}

const (
	scoreKeyPrefix    = "comparison:scores:"
	catalogVersionKey = "comparison:catalog-version"
)

// SyncCatalogVersion drops cached radar series computed against a different
// catalog seed and records the current one. It returns the number of purged
// entries. Without a score cache it does nothing.
func (s *Service) SyncCatalogVersion(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	version := s.store.Version()
	var cached string
	if err := s.cache.Get(ctx, catalogVersionKey, &cached); err == nil && cached == version {
		return 0, nil
	}
	n, err := s.cache.DeleteByPrefix(ctx, scoreKeyPrefix)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Info("purged stale comparison scores",
			logging.String("catalog_version", version),
			logging.Int64("purged", n))
	}
	return n, s.cache.Set(ctx, catalogVersionKey, version, s.cacheTTL)
}

// ScoreCacheKey identifies a radar series by the ordered selection and the
// metric set. Selection order matters because it fixes the series order.
func ScoreCacheKey(ids []string, metrics []domain.MetricSpec) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(ids, "\x1f")))
	h.Write([]byte{0})
	for _, m := range metrics {
		h.Write([]byte(string(m.Group) + "\x1f" + m.Key + "\x1f" + m.Label + "\x1e"))
	}
	return scoreKeyPrefix + hex.EncodeToString(h.Sum(nil)[:16])
}
