// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const efetchBody = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle><MedlineCitation><PMID Version="1">111</PMID>
    <Article><ArticleTitle>A very plain sentence.</ArticleTitle></Article>
  </MedlineCitation></PubmedArticle>
  <PubmedArticle><MedlineCitation><PMID Version="1">222</PMID>
    <Article><ArticleTitle>Xyzzy plugh qua florb!</ArticleTitle></Article>
  </MedlineCitation></PubmedArticle>
</PubmedArticleSet>`

type pubMed struct {
	*httptest.Server
	searches, fetches atomic.Int32
}

func newPubMed(t *testing.T) *pubMed {
	t.Helper()
	pm := &pubMed{}
	pm.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			pm.searches.Add(1)
			fmt.Fprint(w, `{"esearchresult":{"count":"2","retmax":"2","idlist":["111","222"]}}`)
		case strings.HasSuffix(r.URL.Path, "/efetch.fcgi"):
			pm.fetches.Add(1)
			fmt.Fprint(w, efetchBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(pm.Close)
	return pm
}

var (
	tokenRE = regexp.MustCompile(`<\|endoftext\|>|\s?\S+`)
	common  = map[string]bool{"a": true, "very": true, "plain": true, "sentence.": true}
)

// newModelServer scores common words at -1 and anything else at -8.
func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt []string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var choices []map[string]any
		for i, p := range req.Prompt {
			var (
				tokens   []string
				logprobs []any
				offsets  []int
			)
			off := 0
			for j, tok := range tokenRE.FindAllString(p, -1) {
				tokens = append(tokens, tok)
				offsets = append(offsets, off)
				off += utf8.RuneCountInString(tok)
				switch {
				case j == 0:
					logprobs = append(logprobs, nil)
				case common[strings.ToLower(strings.TrimSpace(tok))]:
					logprobs = append(logprobs, -1.0)
				default:
					logprobs = append(logprobs, -8.0)
				}
			}
			choices = append(choices, map[string]any{
				"index": i,
				"text":  p,
				"logprobs": map[string]any{
					"tokens": tokens, "token_logprobs": logprobs, "text_offset": offsets,
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "text_completion", "choices": choices})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetErr(nil); rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRankEndToEnd(t *testing.T) {
	pubmed := newPubMed(t)
	model := newModelServer(t)
	settings.Set("entrez.base_url", pubmed.URL)
	settings.Set("scorer.endpoint", model.URL)
	settings.Set("scorer.encoding", "")
	t.Cleanup(func() {
		settings.Set("entrez.base_url", "")
		settings.Set("scorer.endpoint", "")
	})

	out, err := execute(t, "rank", "--query", "plain", "--max-results", "2", "--no-spinner", "--log-level", "error")
	require.NoError(t, err)

	want := "Ranked Papers:\n" +
		"Xyzzy plugh qua florb! (PMID: 222)\nPerplexity: 2980.96\n---\n" +
		"A very plain sentence. (PMID: 111)\nPerplexity: 2.72\n---\n"
	assert.Equal(t, want, out)
}

func TestRankMasksScorerLoadFailure(t *testing.T) {
	pubmed := newPubMed(t)
	model := newModelServer(t)
	model.Close()
	settings.Set("entrez.base_url", pubmed.URL)
	settings.Set("scorer.endpoint", model.URL)
	settings.Set("scorer.encoding", "")
	settings.Set("scorer.verify_model", true)
	t.Cleanup(func() {
		settings.Set("entrez.base_url", "")
		settings.Set("scorer.endpoint", "")
		settings.Set("scorer.verify_model", false)
	})

	out, errOut, err := executeWithStderr(t, "rank", "--query", "plain", "--max-results", "2", "--no-spinner", "--log-level", "error")
	require.NoError(t, err, "a scoring failure is not a command error")

	assert.EqualValues(t, 1, pubmed.searches.Load())
	assert.EqualValues(t, 1, pubmed.fetches.Load())
	assert.Contains(t, errOut, "Failed to calculate perplexity: loading model")
	assert.Equal(t, "Ranked Papers:\n", out, "heading only, no entries")
}

func TestRankRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"limit too large", []string{"rank", "--query", "x", "--max-results", "101"}, "out of range"},
		{"limit zero", []string{"rank", "--query", "x", "--max-results", "0"}, "out of range"},
		{"unknown format", []string{"rank", "--query", "x", "--format", "pdf"}, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--log-level", "error")...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "perplexity-search dev\n", out)
}
