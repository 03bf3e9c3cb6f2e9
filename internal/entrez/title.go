// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// titlePolicy drops every tag and keeps text content.
var titlePolicy = bluemonday.StrictPolicy()

// cleanTitle turns the inner XML of an ArticleTitle into plain text.
// PubMed titles carry inline markup such as <i>, <sup> and <sub>.
func cleanTitle(inner string) string {
	text := html.UnescapeString(titlePolicy.Sanitize(inner))
	return strings.Join(strings.Fields(text), " ")
}
