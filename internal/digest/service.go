package digest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mvbarbosa/pdfdigest/internal/cache"
	"github.com/mvbarbosa/pdfdigest/internal/common"
	"github.com/mvbarbosa/pdfdigest/internal/entity"
	"github.com/mvbarbosa/pdfdigest/internal/extract"
	"github.com/mvbarbosa/pdfdigest/internal/layout"
	"github.com/mvbarbosa/pdfdigest/internal/llm"
	"github.com/mvbarbosa/pdfdigest/internal/segment"
	"github.com/mvbarbosa/pdfdigest/internal/tables"
)

// Cache key namespaces. Different operations memoize different payloads
// for the same file, so each gets its own prefix over the fingerprint.
const (
	extractionKeyPrefix = "extraction:"
	sectionsKeyPrefix   = "sections:"
)

// Service is the façade consumed by the serving layer: structured
// extraction, table export, and section splitting over one document at a
// time. One Service is safe for concurrent use; the only shared state is
// the cache client.
type Service struct {
	cfg       *common.Config
	converter layout.Converter
	extractor *extract.Extractor
	cache     *cache.Cache
	logger    *slog.Logger
}

func NewService(cfg *common.Config, converter layout.Converter, extractor *extract.Extractor, c *cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		converter: converter,
		extractor: extractor,
		cache:     c,
		logger:    logger,
	}
}

// Extract runs the full pipeline on one statement: validate, fingerprint,
// cache lookup, layout conversion, agent extraction, write-through. A
// layout failure here is degraded-but-survivable: the agent still gets a
// prompt, just without pre-extracted text.
func (s *Service) Extract(ctx context.Context, filePath string) (*entity.ExtractionResult, error) {
	start := time.Now()

	if err := ValidateFile(filePath, s.cfg.Digest.MaxFileSize); err != nil {
		return nil, err
	}

	key := ""
	if fp, err := common.FileSHA256(filePath); err != nil {
		s.logger.Warn("digest.fingerprint_error", "file", filePath, "error", err)
	} else {
		key = extractionKeyPrefix + fp
	}

	if key != "" {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var res entity.ExtractionResult
			if err := json.Unmarshal(raw, &res); err != nil {
				s.logger.Warn("digest.cache_decode_error", "key", key, "error", err)
			} else {
				s.logger.Info("digest.extract.cached",
					"file", filePath,
					"trades", len(res.Trades),
					"fees", len(res.Fees),
				)
				return &res, nil
			}
		}
	}

	text := ""
	if doc, err := s.converter.Convert(ctx, filePath); err != nil {
		s.logger.Warn("digest.layout_unavailable",
			"file", filePath, "error", err,
			"hint", "proceeding without pre-extracted text",
		)
	} else {
		text = doc.Text
	}

	res, err := s.extractor.Run(ctx, extract.Input{FilePath: filePath, DocumentText: text})
	if err != nil {
		return nil, err
	}

	if key != "" {
		if raw, err := json.Marshal(res); err != nil {
			s.logger.Warn("digest.cache_encode_error", "key", key, "error", err)
		} else {
			s.cache.Set(ctx, key, raw)
		}
	}

	s.logger.Info("digest.extract.ok",
		"file", filePath,
		"trades", len(res.Trades),
		"fees", len(res.Fees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// ExtractTables converts the document and serializes every table with a
// usable grid into the requested format. Unlike Extract, a layout failure
// here is terminal: there is nothing to export without the layout tree.
func (s *Service) ExtractTables(ctx context.Context, filePath string, format tables.Format) (*tables.Result, error) {
	start := time.Now()

	if err := ValidateFile(filePath, s.cfg.Digest.MaxFileSize); err != nil {
		return nil, err
	}

	doc, err := s.converter.Convert(ctx, filePath)
	if err != nil {
		return nil, err
	}

	tabs := tables.Collect(doc, s.logger)
	exported := tables.ExportAll(tabs, format, s.logger)

	s.logger.Info("digest.tables.ok",
		"file", filePath,
		"found", len(tabs),
		"exported", len(exported),
		"format", format,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &tables.Result{
		Tables: exported,
		Metadata: tables.ResultMetadata{
			TotalTables:  len(tabs),
			ExportFormat: format,
		},
	}, nil
}

// SaveTables persists an export result to disk, one file per table per
// format, and returns the created paths grouped by format.
func (s *Service) SaveTables(_ context.Context, res *tables.Result, outputDir string) (map[string][]string, error) {
	return tables.Save(res, outputDir, s.logger)
}

// Sections converts the document and splits its text at the configured
// boundary marker, memoized by fingerprint. Here an unusable layout
// result is terminal, since the sections ARE the text.
func (s *Service) Sections(ctx context.Context, filePath string) ([]segment.Section, error) {
	start := time.Now()

	if err := ValidateFile(filePath, s.cfg.Digest.MaxFileSize); err != nil {
		return nil, err
	}

	key := ""
	if fp, err := common.FileSHA256(filePath); err != nil {
		s.logger.Warn("digest.fingerprint_error", "file", filePath, "error", err)
	} else {
		key = sectionsKeyPrefix + fp
	}

	if key != "" {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var secs []segment.Section
			if err := json.Unmarshal(raw, &secs); err != nil {
				s.logger.Warn("digest.cache_decode_error", "key", key, "error", err)
			} else {
				return secs, nil
			}
		}
	}

	doc, err := s.converter.Convert(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if doc.Text == "" {
		return nil, common.NewConversionError("converted document has no text", nil)
	}

	secs := segment.Split(doc.Text, s.cfg.Digest.SectionMarker, s.logger)

	if key != "" {
		if raw, err := json.Marshal(secs); err != nil {
			s.logger.Warn("digest.cache_encode_error", "key", key, "error", err)
		} else {
			s.cache.Set(ctx, key, raw)
		}
	}

	s.logger.Info("digest.sections.ok",
		"file", filePath,
		"sections", len(secs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return secs, nil
}

// ClearCache drops every memoized result.
func (s *Service) ClearCache(ctx context.Context) bool {
	return s.cache.Clear(ctx)
}

// ProcessingInfo reports the pipeline's wiring for diagnostics surfaces.
func (s *Service) ProcessingInfo() map[string]any {
	return map[string]any{
		"processor":      "pdfdigest",
		"agent_ready":    s.extractor != nil,
		"cache_enabled":  s.cache.Enabled(),
		"schema_version": llm.SchemaVersion,
		"capabilities": []string{
			"trades_extraction", "fees_extraction", "b3_notes",
			"table_export", "section_split",
		},
		"supported_formats": []string{"pdf"},
		"model":             s.cfg.Agent.Model,
	}
}
