// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui holds terminal presentation helpers shared by the CLI
// commands and the interactive form: error banners, a busy spinner and
// lipgloss styles.
package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Banner writes each notification as a styled error line to W.
type Banner struct {
	W io.Writer
}

// Notify implements pipeline.Notifier.
func (b Banner) Notify(msg string) {
	fmt.Fprintln(b.W, ErrorStyle.Render(msg))
}

// Recorder keeps notifications in memory. Surfaces that render later
// (the interactive form, the MCP tool) read them back with Messages.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

// Notify implements pipeline.Notifier.
func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Messages returns a copy of the recorded notifications in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// Spinner shows a terminal spinner on W while a stage runs.
type Spinner struct {
	W     io.Writer
	Delay time.Duration
}

// Begin starts the spinner with label as suffix and returns its stop func.
func (s Spinner) Begin(label string) func() {
	delay := s.Delay
	if delay == 0 {
		delay = 100 * time.Millisecond
	}
	sp := spinner.New(spinner.CharSets[14], delay, spinner.WithWriter(s.W))
	sp.Suffix = " " + label
	sp.Start()
	return sp.Stop
}

// NopBusy is a Busy that shows nothing.
type NopBusy struct{}

// Begin returns a no-op.
func (NopBusy) Begin(string) func() { return func() {} }

// Labels forwards stage labels to a channel. The interactive form uses it
// to drive its own spinner from a background run. Sends never block; a
// label is dropped if the receiver is behind.
type Labels chan string

// Begin sends label and returns a no-op.
func (l Labels) Begin(label string) func() {
	select {
	case l <- label:
	default:
	}
	return func() {}
}
