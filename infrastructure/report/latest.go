package report

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"github.com/minio/highwayhash"
	"go.uber.org/zap"

	"processflow/infrastructure/dataset"
	pkgerrors "processflow/pkg/errors"
)

var etagKey = []byte("processflow-report-etag-key-0001")

// ETag returns a strong entity tag for a rendered report
func ETag(data []byte) (string, error) {
	hash, err := highwayhash.New64(etagKey)
	if err != nil {
		return "", err
	}
	if _, err := hash.Write(data); err != nil {
		return "", err
	}
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], hash.Sum64())
	return `"` + hex.EncodeToString(sum[:]) + `"`, nil
}

// Document is a rendered report
type Document struct {
	Data        []byte
	ETag        string
	GeneratedAt time.Time
}

// ErrNotGenerated is returned by Latest before the first Generate
var ErrNotGenerated = pkgerrors.NewNotFoundError("report").WithCode("REPORT_NOT_GENERATED")

// Generator renders reports from the current dataset and keeps the latest
type Generator struct {
	source *dataset.Source
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	latest *Document
}

// NewGenerator creates a generator reading from source. A dataset reload
// discards the latest report.
func NewGenerator(source *dataset.Source, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{source: source, logger: logger, now: time.Now}
	source.OnReload(func(*dataset.Dataset) { g.discard() })
	return g
}

func (g *Generator) discard() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest != nil {
		g.logger.Info("Dataset changed, discarding latest report", zap.String("etag", g.latest.ETag))
		g.latest = nil
	}
}

// Generate renders a new report and makes it the latest
func (g *Generator) Generate() (Document, error) {
	ds := g.source.Current()
	data, err := Render(ds, g.now())
	if err != nil {
		g.logger.Error("Failed to render report", zap.Error(err))
		return Document{}, pkgerrors.NewInternalError("failed to render report").WithCause(err)
	}
	etag, err := ETag(data)
	if err != nil {
		return Document{}, pkgerrors.NewInternalError("failed to hash report").WithCause(err)
	}

	doc := Document{Data: data, ETag: etag, GeneratedAt: g.now()}
	g.mu.Lock()
	g.latest = &doc
	g.mu.Unlock()

	g.logger.Info("Report generated",
		zap.Int("bytes", len(data)),
		zap.String("etag", etag),
		zap.Stringer("dataset", ds))
	return doc, nil
}

// Latest returns the most recent report or ErrNotGenerated
func (g *Generator) Latest() (Document, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.latest == nil {
		return Document{}, ErrNotGenerated
	}
	return *g.latest, nil
}
