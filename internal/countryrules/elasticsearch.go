package countryrules

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchSource reads Country documents indexed by country name.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	if index == "" {
		index = "countries"
	}
	return &ElasticsearchSource{client: client, index: index}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type countryDocument struct {
	Found  bool          `json:"found"`
	Source CountryRecord `json:"_source"`
}

// FetchCountry reads the document whose id is the Country name as the CRM
// stores it. Ids are case sensitive, so the name is only trimmed.
func (s *ElasticsearchSource) FetchCountry(ctx context.Context, name string) (*CountryRecord, error) {
	name = strings.TrimSpace(name)
	res, err := s.client.Get(s.index, name, s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get country %q: %w", name, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrCountryNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("get country %q: %s", name, res.Status())
	}

	var doc countryDocument
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode country %q: %w", name, err)
	}
	if !doc.Found {
		return nil, ErrCountryNotFound
	}

	rec := doc.Source
	if rec.Name == "" {
		rec.Name = name
	}
	return &rec, nil
}
