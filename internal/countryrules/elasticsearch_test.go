package countryrules

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElasticsearchSource_FetchCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/countries/_doc/Afghanistan":
			_, _ = w.Write([]byte(`{"_index":"countries","_id":"Afghanistan","found":true,"_source":{"custom_dial_code":"93","custom_phone_mask":"-99-999-9999"}}`))
		case "/countries/_doc/Atlantis":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"_index":"countries","_id":"Atlantis","found":false}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad request"}`))
		}
	}))
	defer srv.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	src := NewElasticsearchSource(client, "")
	ctx := context.Background()

	rec, err := src.FetchCountry(ctx, "Afghanistan")
	require.NoError(t, err)
	assert.Equal(t, &CountryRecord{Name: "Afghanistan", DialCode: "93", PhoneMask: "-99-999-9999"}, rec)

	rec, err = src.FetchCountry(ctx, "  Afghanistan ")
	require.NoError(t, err)
	assert.Equal(t, "Afghanistan", rec.Name)

	_, err = src.FetchCountry(ctx, "Atlantis")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = src.FetchCountry(ctx, "Kenya")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
