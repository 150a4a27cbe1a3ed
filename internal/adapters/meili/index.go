// Package meili mirrors the catalog into a Meilisearch index for external
// full-text consumers.
package meili

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog/log"

	"estate_listing/internal/adapters/observability"
	"estate_listing/internal/domain"
)

const DefaultIndex = "properties"

// document is the flattened shape stored in the index.
type document struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Type          string   `json:"type"`
	PropertyType  string   `json:"propertyType"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	SquareFootage float64  `json:"squareFootage"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Neighborhood  string   `json:"neighborhood"`
	Furnished     bool     `json:"furnished"`
	Features      []string `json:"features"`
	AgentID       string   `json:"agentId"`
	CreatedAt     int64    `json:"createdAt"` // unix seconds, sortable
	Views         int      `json:"views"`
	IsFeatured    bool     `json:"isFeatured"`
	Geo           geo      `json:"_geo"`
}

type geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Indexer struct {
	client *meilisearch.Client
	index  string

	once    sync.Once
	initErr error
}

func New(host, apiKey string) *Indexer {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &Indexer{client: client, index: DefaultIndex}
}

// IndexProperties creates and configures the index on first use, then adds
// or replaces the given documents.
func (x *Indexer) IndexProperties(ctx context.Context, ps []domain.Property) error {
	if len(ps) == 0 {
		return nil
	}
	x.once.Do(func() { x.initErr = x.initIndex() })
	if x.initErr != nil {
		return x.initErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	docs := make([]document, 0, len(ps))
	for _, p := range ps {
		docs = append(docs, toDocument(p))
	}
	start := time.Now()
	task, err := x.client.Index(x.index).AddDocuments(docs, "id")
	status := 202
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("meili", "add_documents", status, time.Since(start))
	if err != nil {
		return fmt.Errorf("meili add documents: %w", err)
	}
	log.Debug().Int64("task_uid", task.TaskUID).Int("docs", len(docs)).Msg("meili documents enqueued")
	return nil
}

func (x *Indexer) initIndex() error {
	_, err := x.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        x.index,
		PrimaryKey: "id",
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("meili create index: %w", err)
	}

	idx := x.client.Index(x.index)
	if _, err := idx.UpdateSearchableAttributes(&[]string{
		"title", "city", "neighborhood", "propertyType", "description", "features",
	}); err != nil {
		return fmt.Errorf("meili searchable attributes: %w", err)
	}
	if _, err := idx.UpdateFilterableAttributes(&[]string{
		"type", "propertyType", "price", "bedrooms", "bathrooms", "squareFootage",
		"furnished", "city", "agentId", "isFeatured", "_geo",
	}); err != nil {
		return fmt.Errorf("meili filterable attributes: %w", err)
	}
	if _, err := idx.UpdateSortableAttributes(&[]string{
		"price", "createdAt", "views", "_geo",
	}); err != nil {
		return fmt.Errorf("meili sortable attributes: %w", err)
	}
	return nil
}

func toDocument(p domain.Property) document {
	return document{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Type:          string(p.Type),
		PropertyType:  string(p.PropertyType),
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		SquareFootage: p.SquareFootage,
		Address:       p.Address,
		City:          p.City,
		Neighborhood:  p.Neighborhood,
		Furnished:     p.Furnished,
		Features:      p.Features,
		AgentID:       p.Agent.ID,
		CreatedAt:     p.CreatedAt.Unix(),
		Views:         p.Views,
		IsFeatured:    p.IsFeatured,
		Geo:           geo{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng},
	}
}
