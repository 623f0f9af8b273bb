package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// ChromeLauncher drives a local Chrome or Chromium over the DevTools protocol.
type ChromeLauncher struct {
	// ExecPath overrides browser discovery
	ExecPath string
}

var _ Launcher = (*ChromeLauncher)(nil)

// Launch starts a browser with a throwaway profile.
func (l *ChromeLauncher) Launch(ctx context.Context, opts LaunchOptions) (Browser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(DefaultUserAgent),
		chromedp.WindowSize(1280, 800),
	)
	if l.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run starts the process and its initial tab.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, errors.Wrap(err, "failed to start chrome")
	}

	b := &chromeBrowser{ctx: browserCtx}
	b.cancels = append(b.cancels, cancelBrowser, cancelAlloc)
	return b, nil
}

type chromeBrowser struct {
	ctx     context.Context
	cancels []context.CancelFunc
	pages   int
}

// NewPage returns the initial tab first, then opens new ones.
func (b *chromeBrowser) NewPage(ctx context.Context, opts PageOptions) (Page, error) {
	tabCtx := b.ctx
	if b.pages > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = chromedp.NewContext(b.ctx)
		b.cancels = append([]context.CancelFunc{cancel}, b.cancels...)
	}
	b.pages++

	if opts.Width > 0 && opts.Height > 0 {
		if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height))); err != nil {
			return nil, errors.Wrap(err, "failed to set viewport")
		}
	}
	return &chromePage{ctx: tabCtx}, nil
}

func (b *chromeBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	for _, cancel := range b.cancels {
		cancel()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type chromePage struct {
	ctx context.Context
}

func (p *chromePage) OnRequest(fn func(Request)) {
	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			if e.Request != nil {
				fn(headerRequest(e.Request.Headers))
			}
		case *network.EventRequestWillBeSentExtraInfo:
			// carries headers the browser adds itself
			fn(headerRequest(e.Headers))
		}
	})
}

// Goto issues the navigation and returns once Chrome accepts it, without
// waiting for the load event. Cancelling ctx aborts the command but leaves
// the tab open.
func (p *chromePage) Goto(ctx context.Context, url string) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, network.Enable(), chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errorText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return errors.Errorf("navigation to %s failed: %s", url, errorText)
		}
		return nil
	}))
}

// headerRequest adapts a DevTools header map.
type headerRequest network.Headers

func (h headerRequest) Header(name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}
	}
	return ""
}
