// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/perplexity-search/internal/httputil"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

const sampleESearchJSON = `{
  "header": {"type": "esearch", "version": "0.3"},
  "esearchresult": {
    "count": "48213",
    "retmax": "3",
    "retstart": "0",
    "idlist": ["39012345", "38999887", "38811223"],
    "translationset": [],
    "querytranslation": "crispr[All Fields]"
  }
}`

func TestSearch(t *testing.T) {
	var got capturedRequest
	ts := entrezTestServer(t, http.StatusOK, sampleESearchJSON, &got)
	defer ts.Close()

	c := testClient(ts)
	ids, err := c.Search(context.Background(), types.Query{
		Term:    "crispr",
		Limit:   3,
		Contact: types.Contact{Email: "user@example.com"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []types.RecordID{"39012345", "38999887", "38811223"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	if got.path != "/esearch.fcgi" {
		t.Errorf("path = %q, want /esearch.fcgi", got.path)
	}
	checks := map[string]string{
		"db":      "pubmed",
		"term":    "crispr",
		"retmax":  "3",
		"retmode": "json",
		"email":   "user@example.com",
		"tool":    "perplexity-search",
	}
	for k, v := range checks {
		if got.params.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.params.Get(k), v)
		}
	}
	if got.params.Has("api_key") {
		t.Error("api_key should be omitted when not configured")
	}
}

func TestSearchCapsAtLimit(t *testing.T) {
	ts := entrezTestServer(t, http.StatusOK, sampleESearchJSON, nil)
	defer ts.Close()

	ids, err := testClient(ts).Search(context.Background(), types.Query{Term: "crispr", Limit: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2", len(ids))
	}
	if ids[0] != "39012345" || ids[1] != "38999887" {
		t.Errorf("ids = %v, want first two in service order", ids)
	}
}

func TestSearchNoMatches(t *testing.T) {
	body := `{"esearchresult": {"count": "0", "retmax": "0", "retstart": "0", "idlist": [],
	  "errorlist": {"phrasesnotfound": ["xyzzyplugh"], "fieldsnotfound": []}}}`
	ts := entrezTestServer(t, http.StatusOK, body, nil)
	defer ts.Close()

	ids, err := testClient(ts).Search(context.Background(), types.Query{Term: "xyzzyplugh", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"service error field", http.StatusOK, `{"esearchresult": {"ERROR": "Empty term and query_key - nothing todo"}}`, "nothing todo"},
		{"top level error", http.StatusOK, `{"error": "API key invalid"}`, "API key invalid"},
		{"bad json", http.StatusOK, `<html>oops</html>`, "parsing ESearch response"},
		{"http 500", http.StatusInternalServerError, `backend down`, "HTTP 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := entrezTestServer(t, tt.status, tt.body, nil)
			defer ts.Close()

			ids, err := testClient(ts).Search(context.Background(), types.Query{Term: "", Limit: 10})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if ids != nil {
				t.Errorf("ids = %v, want nil on error", ids)
			}
		})
	}
}

func TestSearchStatusErrorType(t *testing.T) {
	ts := entrezTestServer(t, http.StatusTooManyRequests, `{"error":"API rate limit exceeded"}`, nil)
	defer ts.Close()

	_, err := testClient(ts).Search(context.Background(), types.Query{Term: "x", Limit: 1})
	var se *httputil.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *httputil.StatusError", err)
	}
	if se.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", se.StatusCode)
	}
}

func TestSearchContextCancelled(t *testing.T) {
	ts := entrezTestServer(t, http.StatusOK, sampleESearchJSON, nil)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(ts).Search(ctx, types.Query{Term: "crispr", Limit: 3})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
