// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RecordID is the opaque identifier PubMed assigns to an article (a PMID).
type RecordID string

// Record is one fetched article. Title comes straight from the source
// database and is not validated; it may be empty.
type Record struct {
	Title string   `json:"title" yaml:"title"`
	ID    RecordID `json:"pmid" yaml:"pmid"`
}

// ScoredRecord pairs a record with the perplexity of its title.
type ScoredRecord struct {
	Record `yaml:",inline"`

	// Perplexity is the exponentiated mean negative log-likelihood per token.
	// Higher means more surprising.
	Perplexity float64 `json:"perplexity" yaml:"perplexity"`
}

// FetchResult holds the records a fetch returned and how many articles were
// dropped because they lacked an identifier or title.
type FetchResult struct {
	Records []Record
	Skipped int
}

// Titles returns the titles of records in order.
func Titles(records []Record) []string {
	titles := make([]string, len(records))
	for i, r := range records {
		titles[i] = r.Title
	}
	return titles
}
