package countryrules

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"donor-field-workers/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrappeSource_FetchCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/method/frappe.client.get_value", r.URL.Path)
		assert.Equal(t, "token key:secret", r.Header.Get("Authorization"))
		assert.Equal(t, "Country", r.URL.Query().Get("doctype"))

		var fields []string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("fieldname")), &fields))
		assert.Contains(t, fields, "custom_phone_mask")

		var filters map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters))

		w.Header().Set("Content-Type", "application/json")
		switch filters["name"] {
		case "Algeria":
			_, _ = w.Write([]byte(`{"message":{"name":"Algeria","custom_dial_code":"213","custom_phone_mask":"-999-99-99-99","custom_phone_regex":null}}`))
		case "Atlantis":
			_, _ = w.Write([]byte(`{"message":null}`))
		case "Narnia":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"exc_type":"DoesNotExistError"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	src := NewFrappeSource(config.FrappeConfig{
		BaseURL:   srv.URL + "/",
		APIKey:    "key",
		APISecret: "secret",
	})
	ctx := context.Background()

	rec, err := src.FetchCountry(ctx, "Algeria")
	require.NoError(t, err)
	assert.Equal(t, "213", rec.DialCode)
	assert.Equal(t, "-999-99-99-99", rec.PhoneMask)

	_, err = src.FetchCountry(ctx, "Atlantis")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = src.FetchCountry(ctx, "Narnia")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = src.FetchCountry(ctx, "Kenya")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCountryNotFound)
}
