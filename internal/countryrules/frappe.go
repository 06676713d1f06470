package countryrules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"donor-field-workers/internal/common/config"
	httpclient "donor-field-workers/internal/common/http"
)

var countryFields = []string{"name", "custom_dial_code", "custom_phone_mask", "custom_phone_regex"}

// FrappeSource reads Country records through the CRM's REST API.
type FrappeSource struct {
	client    *httpclient.Client
	baseURL   string
	apiKey    string
	apiSecret string
}

func NewFrappeSource(cfg config.FrappeConfig) *FrappeSource {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FrappeSource{
		client:    httpclient.NewClient(timeout),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
	}
}

func (s *FrappeSource) Name() string { return "frappe" }

type getValueResponse struct {
	Message *CountryRecord `json:"message"`
}

func (s *FrappeSource) FetchCountry(ctx context.Context, name string) (*CountryRecord, error) {
	fields, _ := json.Marshal(countryFields)
	filters, _ := json.Marshal(map[string]string{"name": name})

	q := url.Values{}
	q.Set("doctype", "Country")
	q.Set("fieldname", string(fields))
	q.Set("filters", string(filters))
	endpoint := s.baseURL + "/api/method/frappe.client.get_value?" + q.Encode()

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["Authorization"] = fmt.Sprintf("token %s:%s", s.apiKey, s.apiSecret)
	}

	var resp getValueResponse
	if err := s.client.GetJSON(ctx, endpoint, headers, &resp); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("frappe get_value Country %q: %w", name, err)
	}

	if resp.Message == nil || *resp.Message == (CountryRecord{}) {
		return nil, ErrCountryNotFound
	}
	return resp.Message, nil
}
