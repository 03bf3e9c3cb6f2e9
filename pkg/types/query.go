// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the perplexity-search pipeline:
// the query a user submits, the records fetched from PubMed, and the scored
// records the ranker produces.
package types

import (
	"errors"
	"fmt"
)

// Result limit bounds accepted from any presentation surface.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 10
)

// ErrLimitOutOfRange is returned by Query.Validate when Limit is outside
// [MinLimit, MaxLimit].
var ErrLimitOutOfRange = errors.New("result limit out of range")

// Contact identifies the caller to the literature database. E-utilities asks
// every client to send a tool name and a contact email; neither is a credential.
type Contact struct {
	// Tool is the registered application name sent as the tool parameter.
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// Email is the contact identifier sent as the email parameter.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// APIKey is an optional NCBI API key.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`
}

// Query is one user submission. It is immutable once a run starts.
type Query struct {
	// Term is the free-text search expression. It may be empty; the remote
	// service decides what an empty term means.
	Term string `json:"term" yaml:"term"`

	// Limit is the maximum number of records to retrieve.
	Limit int `json:"limit" yaml:"limit"`

	// Contact is passed to every remote call the run makes.
	Contact Contact `json:"contact" yaml:"contact"`
}

// Validate checks the result limit.
func (q Query) Validate() error {
	if q.Limit < MinLimit || q.Limit > MaxLimit {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrLimitOutOfRange, q.Limit, MinLimit, MaxLimit)
	}
	return nil
}

// Or returns c with empty fields filled from def.
func (c Contact) Or(def Contact) Contact {
	if c.Tool == "" {
		c.Tool = def.Tool
	}
	if c.Email == "" {
		c.Email = def.Email
	}
	if c.APIKey == "" {
		c.APIKey = def.APIKey
	}
	return c
}
