package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const maxResults = 100

// Search finds the given user's recipes matching the query text.
// Matches are scored across title, tag names, and ingredient names.
// Returns matching recipe IDs in descending relevance order.
func (s *RecipeIndex) Search(ctx context.Context, userID int64, queryText string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(userID, queryText)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, maxResults, 0, false)

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]int64, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// buildSearchQuery constructs the Bleve query: a user scope term combined
// with a disjunction over the searchable text fields.
func buildSearchQuery(userID int64, queryText string) query.Query {
	userQuery := bleve.NewTermQuery(strconv.FormatInt(userID, 10))
	userQuery.SetField("user_id")

	if queryText == "" {
		return userQuery
	}

	titleMatch := bleve.NewMatchQuery(queryText)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	tagMatch := bleve.NewMatchQuery(queryText)
	tagMatch.SetField("tags")
	tagMatch.SetBoost(1.5)

	ingredientMatch := bleve.NewMatchQuery(queryText)
	ingredientMatch.SetField("ingredients")

	// Typo tolerance on the title.
	fuzzyQuery := bleve.NewFuzzyQuery(queryText)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)

	textQuery := bleve.NewDisjunctionQuery(titleMatch, tagMatch, ingredientMatch, fuzzyQuery)

	return bleve.NewConjunctionQuery(userQuery, textQuery)
}
