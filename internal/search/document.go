// Package search provides full-text recipe search using Bleve.
// Recipes are indexed by title, tag names, and ingredient names, scoped
// per owner so one user's search never surfaces another user's recipes.
package search

import (
	"strconv"

	"github.com/abhie-lp/recipe-app-api/internal/domain"
)

// RecipeDocument is the document structure for the Bleve index.
type RecipeDocument struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping. Bleve defaults to Go struct field names.
func (d *RecipeDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":      d.ID,
		"user_id": d.UserID,
		"title":   d.Title,
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.Ingredients) > 0 {
		m["ingredients"] = d.Ingredients
	}
	return m
}

// RecipeToDocument converts a domain Recipe to a RecipeDocument.
func RecipeToDocument(r *domain.Recipe) *RecipeDocument {
	doc := &RecipeDocument{
		ID:     strconv.FormatInt(r.ID, 10),
		UserID: strconv.FormatInt(r.UserID, 10),
		Title:  r.Title,
	}
	for _, t := range r.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	for _, ing := range r.Ingredients {
		doc.Ingredients = append(doc.Ingredients, ing.Name)
	}
	return doc
}
