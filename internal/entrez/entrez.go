// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez queries PubMed through the NCBI E-utilities HTTP API.
// ESearch turns a query term into record identifiers; EFetch turns
// identifiers into titles.
package entrez

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/perplexity-search/pkg/types"
)

const (
	// DefaultBaseURL is the E-utilities root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultTool is the tool name NCBI asks every client to send.
	DefaultTool = "perplexity-search"
)

const (
	defaultDatabase = "pubmed"
	serviceName     = "E-utilities"
)

// Client talks to one Entrez database. The contact sent with each request
// is the one passed to the call, with empty fields taken from Contact.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	Database string
	Contact  types.Contact
	Logger   *log.Logger
}

// New builds a Client from cfg. A zero BaseURL or Database falls back to
// the public PubMed defaults.
func New(cfg types.EntrezConfig, client *http.Client, logger *log.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Client{
		HTTP:     client,
		BaseURL:  cfg.BaseURL,
		Database: cfg.Database,
		Contact:  cfg.Contact,
		Logger:   logger.WithPrefix("entrez"),
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.Contact.Tool == "" {
		c.Contact.Tool = DefaultTool
	}
	return c
}

// params returns the parameters every E-utilities request carries.
func (c *Client) params(contact types.Contact) url.Values {
	contact = contact.Or(c.Contact)
	v := url.Values{"db": {c.Database}}
	if contact.Tool != "" {
		v.Set("tool", contact.Tool)
	}
	if contact.Email != "" {
		v.Set("email", contact.Email)
	}
	if contact.APIKey != "" {
		v.Set("api_key", contact.APIKey)
	}
	return v
}

func (c *Client) endpoint(name string) string {
	return c.BaseURL + "/" + name
}
