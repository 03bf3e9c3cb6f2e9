// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/perplexity-search/pkg/types"
)

// Format selects how ranked records are rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// Heading introduces the ranked list.
const Heading = "Ranked Papers:"

// Separator is written after every entry in text output.
const Separator = "---"

// pubmedURL is the article page for a PMID.
const pubmedURL = "https://pubmed.ncbi.nlm.nih.gov/%s/"

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// Render writes ranked to w in format f.
func Render(w io.Writer, ranked []types.ScoredRecord, f Format) error {
	switch f {
	case FormatText, "":
		return FormatTextTo(w, ranked)
	case FormatJSON:
		return FormatJSONTo(w, ranked)
	case FormatYAML:
		return FormatYAMLTo(w, ranked)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(ranked))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(ranked))
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// FormatScore renders a perplexity with two decimals.
func FormatScore(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

// Entry renders one record as the two lines shown in text output.
func Entry(r types.ScoredRecord) string {
	return fmt.Sprintf("%s (PMID: %s)\nPerplexity: %s", r.Title, r.ID, FormatScore(r.Perplexity))
}

// FormatTextTo writes the heading, then each entry followed by a separator.
func FormatTextTo(w io.Writer, ranked []types.ScoredRecord) error {
	var b strings.Builder
	b.WriteString(Heading + "\n")
	for _, r := range ranked {
		b.WriteString(Entry(r) + "\n")
		b.WriteString(Separator + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// view is the serialized shape of a ranked record. Perplexity is nil when
// the score is NaN, since JSON has no NaN.
type view struct {
	Rank       int      `json:"rank" yaml:"rank"`
	PMID       string   `json:"pmid" yaml:"pmid"`
	Title      string   `json:"title" yaml:"title"`
	Perplexity *float64 `json:"perplexity" yaml:"perplexity"`
}

func views(ranked []types.ScoredRecord) []view {
	out := make([]view, len(ranked))
	for i, r := range ranked {
		out[i] = view{Rank: i + 1, PMID: string(r.ID), Title: r.Title}
		if !math.IsNaN(r.Perplexity) && !math.IsInf(r.Perplexity, 0) {
			p := r.Perplexity
			out[i].Perplexity = &p
		}
	}
	return out
}

// FormatJSONTo writes ranked as indented JSON.
func FormatJSONTo(w io.Writer, ranked []types.ScoredRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views(ranked))
}

// FormatYAMLTo writes ranked as a YAML sequence.
func FormatYAMLTo(w io.Writer, ranked []types.ScoredRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(views(ranked)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// Markdown renders ranked as a Markdown document with PubMed links.
func Markdown(ranked []types.ScoredRecord) string {
	var b strings.Builder
	b.WriteString("## Ranked Papers\n\n")
	for _, r := range ranked {
		id := string(r.ID)
		fmt.Fprintf(&b, "%s (PMID: [%s](%s))\n\n", escapeMarkdown(r.Title), id, fmt.Sprintf(pubmedURL, id))
		fmt.Fprintf(&b, "Perplexity: %s\n\n", FormatScore(r.Perplexity))
		b.WriteString(Separator + "\n\n")
	}
	return b.String()
}

// HTML renders the Markdown form as a complete HTML page.
func HTML(ranked []types.ScoredRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Ranked Papers",
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank | html.SkipHTML,
	})
	return markdown.Render(p.Parse([]byte(Markdown(ranked))), renderer)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `#`, `\#`, `|`, `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
