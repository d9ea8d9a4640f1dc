package search

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// RecipeIndex wraps a Bleve index with recipe-specific operations.
//
// Thread safety: all public methods are safe for concurrent use.
type RecipeIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	// Path is the index directory. Empty means an in-memory index,
	// which is handy for tests.
	Path   string
	Logger *slog.Logger
}

// NewRecipeIndex creates or opens a recipe search index.
// A corrupted existing index is removed and recreated.
func NewRecipeIndex(opts Options) (*RecipeIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if opts.Path == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &RecipeIndex{index: index, logger: logger}, nil
	}

	var index bleve.Index
	var err error

	if _, statErr := os.Stat(opts.Path); statErr == nil {
		index, err = bleve.Open(opts.Path)
		if err != nil {
			logger.Warn("failed to open existing search index, recreating",
				"path", opts.Path,
				"error", err,
			)
			if removeErr := os.RemoveAll(opts.Path); removeErr != nil {
				return nil, fmt.Errorf("remove old index: %w", removeErr)
			}
			index = nil
		}
	}

	if index == nil {
		index, err = bleve.New(opts.Path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		logger.Info("created new search index", "path", opts.Path)
	} else {
		logger.Info("opened existing search index", "path", opts.Path)
	}

	return &RecipeIndex{
		index:  index,
		path:   opts.Path,
		logger: logger,
	}, nil
}

// buildIndexMapping creates the Bleve index mapping for recipe documents.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title is the primary search target.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = en.AnalyzerName
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	ingredientsFieldMapping := bleve.NewTextFieldMapping()
	ingredientsFieldMapping.Analyzer = en.AnalyzerName
	ingredientsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("ingredients", ingredientsFieldMapping)

	// Exact-match fields for scoping and identity.
	userIDFieldMapping := bleve.NewTextFieldMapping()
	userIDFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("user_id", userIDFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Close closes the index and releases resources.
func (s *RecipeIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexRecipe adds or updates a recipe in the index.
func (s *RecipeIndex) IndexRecipe(r *RecipeDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(r.ID, r.ToMap())
}

// DeleteRecipe removes a recipe from the index.
func (s *RecipeIndex) DeleteRecipe(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the total number of indexed recipes.
func (s *RecipeIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
