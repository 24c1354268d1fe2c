package resolve

import (
	"context"
	"log/slog"
	"strings"

	"marginalia/internal/logging"
	"marginalia/internal/services/solr"
)

// DirectField is the reserved identifier field resolved by loading the
// record directly instead of running an index query.
const DirectField = "id"

// Deduplicated records never own annotations, so scoped queries exclude
// them.
const dedupeFilter = "finna.deduplication:0"

// Index is the search surface strategies query for candidate records.
// *solr.Client satisfies it.
type Index interface {
	Record(ctx context.Context, id string) (*solr.Record, error)
	Search(ctx context.Context, query string, filters ...string) ([]solr.Record, error)
}

// Strategy attempts to resolve one raw identifier to a canonical record. A
// (nil, nil) return means the strategy found nothing and the next one
// should run.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, rawID string) (*solr.Record, error)
}

// ComposeID prefixes a raw identifier with its source. Identifiers that
// already carry the prefix are returned unchanged.
func ComposeID(source, rawID string) string {
	if strings.HasPrefix(rawID, source+".") {
		return rawID
	}
	return source + "." + rawID
}

type directStrategy struct {
	index  Index
	source string
}

func (s *directStrategy) Name() string { return DirectField }

func (s *directStrategy) Resolve(ctx context.Context, rawID string) (*solr.Record, error) {
	return s.index.Record(ctx, ComposeID(s.source, rawID))
}

type fieldStrategy struct {
	index  Index
	source string
	field  string
}

func (s *fieldStrategy) Name() string { return s.field }

// Resolve queries the field with the raw identifier as exported; composed
// prefixes only apply to direct loads.
func (s *fieldStrategy) Resolve(ctx context.Context, rawID string) (*solr.Record, error) {
	records, err := s.index.Search(
		ctx,
		s.field+":"+solr.Quote(rawID),
		"source_str_mv:"+solr.Quote(s.source),
		dedupeFilter,
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	record := records[0]
	return &record, nil
}

// Resolver tries each configured strategy in order until one produces a
// record.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New builds a resolver for the given source. Each entry in fields becomes
// one strategy, in order; an empty list falls back to the direct "id"
// strategy alone.
func New(index Index, source string, fields []string, logger *slog.Logger) *Resolver {
	logger = logging.WithComponent(logger, "resolve")
	if len(fields) == 0 {
		fields = []string{DirectField}
	}
	strategies := make([]Strategy, 0, len(fields))
	for _, field := range fields {
		if field == DirectField {
			strategies = append(strategies, &directStrategy{index: index, source: source})
			continue
		}
		strategies = append(strategies, &fieldStrategy{index: index, source: source, field: field})
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// Resolve returns the first record any strategy produces. Both the record
// and the error are nil when the identifier is unresolved.
func (r *Resolver) Resolve(ctx context.Context, rawID string) (*solr.Record, error) {
	for _, strategy := range r.strategies {
		record, err := strategy.Resolve(ctx, rawID)
		if err != nil {
			return nil, err
		}
		if record != nil {
			r.logger.Debug("identifier resolved",
				logging.String("strategy", strategy.Name()),
				logging.String("raw_id", rawID),
				logging.String("record_id", record.ID))
			return record, nil
		}
	}
	r.logger.Debug("identifier unresolved", logging.String("raw_id", rawID))
	return nil, nil
}
