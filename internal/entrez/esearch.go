// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pdiddy/perplexity-search/internal/httputil"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

// Search runs one ESearch request for q.Term and returns at most q.Limit
// record identifiers in the order the service ranks them. It does not retry.
func (c *Client) Search(ctx context.Context, q types.Query) ([]types.RecordID, error) {
	params := c.params(q.Contact)
	params.Set("term", q.Term)
	params.Set("retmax", strconv.Itoa(q.Limit))
	params.Set("retmode", "json")

	reqURL := c.endpoint("esearch.fcgi") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.Do(c.HTTP, req, serviceName)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("ESearch: %s", sr.Error)
	}
	if sr.Result.Error != "" {
		return nil, fmt.Errorf("ESearch: %s", sr.Result.Error)
	}
	if len(sr.Result.ErrorList.PhrasesNotFound) > 0 {
		c.Logger.Debug("phrases not found", "phrases", sr.Result.ErrorList.PhrasesNotFound)
	}

	ids := sr.Result.IDList
	if q.Limit > 0 && len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}
	out := make([]types.RecordID, len(ids))
	for i, id := range ids {
		out[i] = types.RecordID(id)
	}
	c.Logger.Debug("esearch done", "term", q.Term, "count", sr.Result.Count, "returned", len(out))
	return out, nil
}

// ESearch JSON structures.
type esearchResponse struct {
	Error  string        `json:"error"`
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count     string           `json:"count"`
	RetMax    string           `json:"retmax"`
	RetStart  string           `json:"retstart"`
	IDList    []string         `json:"idlist"`
	Error     string           `json:"ERROR"`
	ErrorList esearchErrorList `json:"errorlist"`
}

type esearchErrorList struct {
	PhrasesNotFound []string `json:"phrasesnotfound"`
	FieldsNotFound  []string `json:"fieldsnotfound"`
}
