package search

import (
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"

	"propwatch/server/internal/models"
)

const postcodeIndexUID = "postcodes"

// Index is an optional Meilisearch side index over sale records. The
// relational store stays the source of truth; the index only serves
// suggestion queries and is rebuilt on demand.
type Index struct {
	client *meilisearch.Client
	uid    string
	logger *logrus.Logger
}

type postcodeDocument struct {
	ID           uint     `json:"id"`
	Postcode     string   `json:"postcode"`
	Price        int      `json:"price"`
	PropertyType string   `json:"property_type"`
	Region       string   `json:"region"`
	DateSold     string   `json:"date_sold"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func NewIndex(host, apiKey string, logger *logrus.Logger) *Index {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	if logger == nil {
		logger = logrus.New()
	}
	return &Index{client: client, uid: postcodeIndexUID, logger: logger}
}

// Init creates the index and configures its attributes.
func (ix *Index) Init() error {
	_, err := ix.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        ix.uid,
		PrimaryKey: "id",
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	_, err = ix.client.Index(ix.uid).UpdateSearchableAttributes(&[]string{
		"postcode",
		"region",
	})
	if err != nil {
		return fmt.Errorf("failed to configure searchable attributes: %w", err)
	}

	_, err = ix.client.Index(ix.uid).UpdateSortableAttributes(&[]string{
		"date_sold",
		"price",
	})
	if err != nil {
		return fmt.Errorf("failed to configure sortable attributes: %w", err)
	}

	return nil
}

// IndexProperties replaces the documents for the given sale records.
func (ix *Index) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	docs := make([]postcodeDocument, 0, len(properties))
	for _, p := range properties {
		regionName := ""
		if p.Region != nil {
			regionName = p.Region.Name
		}
		docs = append(docs, postcodeDocument{
			ID:           p.ID,
			Postcode:     p.Postcode,
			Price:        p.Price,
			PropertyType: string(p.PropertyType),
			Region:       regionName,
			DateSold:     p.DateSold.Format("2006-01-02"),
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
		})
	}

	_, err := ix.client.Index(ix.uid).AddDocuments(docs)
	if err != nil {
		return fmt.Errorf("failed to index properties: %w", err)
	}
	ix.logger.Infof("Indexed %d postcode documents", len(docs))
	return nil
}

// SearchPostcodes queries the index, newest sales first, and maps hits
// onto suggestion results.
func (ix *Index) SearchPostcodes(term string, limit int64) ([]models.SearchResult, error) {
	res, err := ix.client.Index(ix.uid).Search(strings.ToUpper(term), &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"date_sold:desc"},
	})
	if err != nil {
		return nil, fmt.Errorf("search index query failed: %w", err)
	}

	results := make([]models.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, resultFromHit(hit))
	}
	return results, nil
}

func resultFromHit(hit interface{}) models.SearchResult {
	doc, _ := hit.(map[string]interface{})
	result := models.SearchResult{
		ID:           fmt.Sprintf("property-%d", int(getFloat(doc, "id"))),
		Name:         getString(doc, "postcode"),
		Type:         models.SearchResultPostcode,
		Price:        int(getFloat(doc, "price")),
		PropertyType: models.PropertyType(getString(doc, "property_type")),
		Region:       getString(doc, "region"),
	}
	result.Description = fmt.Sprintf("%s • %s", result.PropertyType, result.Region)

	if lat, ok := doc["latitude"].(float64); ok {
		if lng, ok := doc["longitude"].(float64); ok {
			result.Coordinates = &models.Coordinates{Lat: lat, Lng: lng}
		}
	}
	return result
}

func getString(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(doc map[string]interface{}, key string) float64 {
	if v, ok := doc[key].(float64); ok {
		return v
	}
	return 0
}
