// Package capture obtains an API token by letting a person log in through
// a real browser while watching its outgoing requests for the token header.
package capture

import "context"

// LaunchOptions configures the browser process.
type LaunchOptions struct {
	Headless bool
}

// PageOptions configures the isolated page the login runs in.
type PageOptions struct {
	UserAgent string
	Width     int
	Height    int
}

// Launcher starts browsers.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is a running browser. Close releases every page and the process.
type Browser interface {
	NewPage(ctx context.Context, opts PageOptions) (Page, error)
	Close() error
}

// Page is a single tab.
type Page interface {
	// OnRequest registers fn for every outgoing request. fn may be called
	// from the browser's event goroutine.
	OnRequest(fn func(Request))
	Goto(ctx context.Context, url string) error
}

// Request is an outgoing request as seen by the browser.
type Request interface {
	// Header returns the named header, matched case-insensitively.
	Header(name string) string
}
