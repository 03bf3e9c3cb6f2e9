// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/perplexity-search/internal/httputil"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

// postThreshold is the identifier count above which EFetch is sent as a
// form POST. E-utilities rejects very long GET URLs.
const postThreshold = 200

// Fetch retrieves the title and PMID of every identifier in one EFetch
// request. The batch is not chunked. An empty ids slice returns an empty
// result without contacting the service.
//
// A response that is not a PubmedArticleSet fails the whole call. Inside a
// valid set, an article missing its PMID or ArticleTitle is skipped and
// counted in types.FetchResult.Skipped; the remaining records are kept in
// response order. Book articles are ignored.
func (c *Client) Fetch(ctx context.Context, contact types.Contact, ids []types.RecordID) (types.FetchResult, error) {
	if len(ids) == 0 {
		return types.FetchResult{}, nil
	}

	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = string(id)
	}

	params := c.params(contact)
	params.Set("id", strings.Join(joined, ","))
	params.Set("rettype", "xml")
	params.Set("retmode", "xml")

	var (
		req *http.Request
		err error
	)
	if len(ids) > postThreshold {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("efetch.fcgi"), strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("efetch.fcgi")+"?"+params.Encode(), nil)
	}
	if err != nil {
		return types.FetchResult{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.Do(c.HTTP, req, serviceName)
	if err != nil {
		return types.FetchResult{}, err
	}
	defer resp.Body.Close()

	var doc efetchDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return types.FetchResult{}, fmt.Errorf("parsing EFetch response: %w", err)
	}

	switch doc.XMLName.Local {
	case "PubmedArticleSet":
	case "eFetchResult":
		return types.FetchResult{}, fmt.Errorf("EFetch: %s", strings.TrimSpace(doc.Error))
	default:
		return types.FetchResult{}, fmt.Errorf("EFetch: unexpected root element <%s>", doc.XMLName.Local)
	}

	var result types.FetchResult
	for i, a := range doc.Articles {
		rec, ok := a.record()
		if !ok {
			c.Logger.Warn("skipping article without PMID or title", "position", i)
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}
	if len(doc.Books) > 0 {
		c.Logger.Debug("ignoring book articles", "count", len(doc.Books))
	}
	return result, nil
}

// record reads PubmedArticle/MedlineCitation/{PMID,Article/ArticleTitle}.
func (a pubmedArticle) record() (types.Record, bool) {
	mc := a.Citation
	if mc == nil || mc.PMID == nil || mc.Article == nil || mc.Article.Title == nil {
		return types.Record{}, false
	}
	pmid := strings.TrimSpace(mc.PMID.Value)
	if pmid == "" {
		return types.Record{}, false
	}
	return types.Record{
		Title: cleanTitle(mc.Article.Title.Inner),
		ID:    types.RecordID(pmid),
	}, true
}

// EFetch XML structures. The root element name is left open so an
// eFetchResult error document decodes into the same value.
type efetchDocument struct {
	XMLName  xml.Name
	Articles []pubmedArticle   `xml:"PubmedArticle"`
	Books    []pubmedBookEntry `xml:"PubmedBookArticle"`
	Error    string            `xml:"ERROR"`
}

type pubmedArticle struct {
	Citation *medlineCitation `xml:"MedlineCitation"`
}

type pubmedBookEntry struct{}

type medlineCitation struct {
	PMID    *pmid           `xml:"PMID"`
	Article *medlineArticle `xml:"Article"`
}

type pmid struct {
	Version string `xml:"Version,attr"`
	Value   string `xml:",chardata"`
}

type medlineArticle struct {
	Title *articleTitle `xml:"ArticleTitle"`
}

// articleTitle keeps the raw inner XML so inline markup can be stripped.
type articleTitle struct {
	Inner string `xml:",innerxml"`
}
