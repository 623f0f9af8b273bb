package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/logging"
	"github.com/juju/clock"
	"github.com/pkg/errors"
)

// Defaults for Config.
const (
	DefaultLoginURL     = "https://app.monarch.com/login"
	DefaultTimeout      = 300 * time.Second
	DefaultPollInterval = time.Second
	DefaultConfirmDelay = 3 * time.Second

	// DefaultUserAgent is a desktop Chrome user agent; some identity
	// providers refuse sign-in from automation user agents.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrTimeout is recorded on a TimedOut result.
var ErrTimeout = errors.New("timeout - no token captured")

// State is a step of a capture run.
type State int

const (
	Launching State = iota
	AwaitingToken
	Captured
	TimedOut
	Errored
)

func (s State) String() string {
	switch s {
	case Launching:
		return "launching"
	case AwaitingToken:
		return "awaiting_token"
	case Captured:
		return "captured"
	case TimedOut:
		return "timed_out"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Result is the outcome of one run. Outcome is Captured, TimedOut or Errored.
type Result struct {
	Outcome State
	Token   string
	Err     error
}

// Config tunes the capture wait.
type Config struct {
	LoginURL     string        `yaml:"login_url"`
	Headless     bool          `yaml:"headless"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ConfirmDelay time.Duration `yaml:"confirm_delay"`
}

func (c *Config) applyDefaults() {
	if c.LoginURL == "" {
		c.LoginURL = DefaultLoginURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ConfirmDelay < 0 {
		c.ConfirmDelay = 0
	}
}

// TokenSaver persists a captured token.
type TokenSaver interface {
	SaveToken(token string) error
}

// Options wires a Flow.
type Options struct {
	Launcher Launcher
	Store    TokenSaver
	Config   Config
	Clock    clock.Clock
	Logger   *slog.Logger

	// Invalidate drops any cached client after a token is saved
	Invalidate func()

	// Progress is called on every poll tick while waiting
	Progress func(state State, elapsed time.Duration)
}

// Flow runs interactive token captures.
type Flow struct {
	launcher   Launcher
	store      TokenSaver
	cfg        Config
	clock      clock.Clock
	logger     *slog.Logger
	invalidate func()
	progress   func(State, time.Duration)
}

// NewFlow creates a flow. Zero Config fields select the defaults above,
// except ConfirmDelay where zero means close right away.
func NewFlow(opts Options) *Flow {
	opts.Config.applyDefaults()
	if opts.Launcher == nil {
		opts.Launcher = &ChromeLauncher{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Invalidate == nil {
		opts.Invalidate = func() {}
	}
	if opts.Progress == nil {
		opts.Progress = func(State, time.Duration) {}
	}
	return &Flow{
		launcher:   opts.Launcher,
		store:      opts.Store,
		cfg:        opts.Config,
		clock:      opts.Clock,
		logger:     opts.Logger,
		invalidate: opts.Invalidate,
		progress:   opts.Progress,
	}
}

// Config returns the settings in effect, defaults applied.
func (f *Flow) Config() Config {
	return f.cfg
}

// Run opens the login page and waits for a token. The browser is closed on
// every path and no panic escapes.
func (f *Flow) Run(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("token capture panicked", "panic", r)
			res = Result{Outcome: Errored, Err: fmt.Errorf("token capture panicked: %v", r)}
		}
	}()

	f.progress(Launching, 0)
	browser, err := f.launcher.Launch(ctx, LaunchOptions{Headless: f.cfg.Headless})
	if err != nil {
		return f.fail(errors.Wrap(err, "failed to launch browser"))
	}

	var once sync.Once
	closeBrowser := func() {
		once.Do(func() {
			if err := browser.Close(); err != nil {
				f.logger.Warn("failed to close browser", "error", err)
			}
		})
	}
	defer closeBrowser()

	page, err := browser.NewPage(ctx, PageOptions{UserAgent: DefaultUserAgent, Width: 1280, Height: 800})
	if err != nil {
		return f.fail(errors.Wrap(err, "failed to open page"))
	}

	observer := NewTokenObserver()
	page.OnRequest(observer.Observe)

	// The ceiling covers navigation too, so a page that never loads still
	// ends the run.
	deadline := f.clock.After(f.cfg.Timeout)
	navCtx, cancelNav := context.WithCancel(ctx)
	defer cancelNav()

	f.logger.Info("opening login page", "url", f.cfg.LoginURL)
	navigated := f.navigate(navCtx, page)

	token, res := f.await(ctx, observer, deadline, navigated)
	cancelNav()
	if res.Outcome != Captured {
		return res
	}

	if f.store != nil {
		if err := f.store.SaveToken(token); err != nil {
			return f.fail(errors.Wrap(err, "failed to save captured token"))
		}
	}
	f.invalidate()
	f.logger.Info("token captured and saved")

	if f.cfg.ConfirmDelay > 0 {
		select {
		case <-f.clock.After(f.cfg.ConfirmDelay):
		case <-ctx.Done():
		}
	}
	closeBrowser()
	return Result{Outcome: Captured, Token: token}
}

// navigate issues the page load in the background. The result channel
// yields once; a panic in the page is reported as an error.
func (f *Flow) navigate(ctx context.Context, page Page) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- errors.Errorf("navigation panicked: %v", r)
			}
		}()
		done <- page.Goto(ctx, f.cfg.LoginURL)
	}()
	return done
}

func (f *Flow) await(ctx context.Context, observer *TokenObserver, deadline <-chan time.Time, navigated <-chan error) (string, Result) {
	start := f.clock.Now()
	f.progress(AwaitingToken, 0)

	for {
		select {
		case <-observer.Done():
			token, _ := observer.Token()
			return token, Result{Outcome: Captured, Token: token}
		case err := <-navigated:
			if err != nil {
				return "", f.fail(errors.Wrap(err, "failed to open login page"))
			}
			navigated = nil
		case <-deadline:
			f.logger.Warn("no token captured before timeout", "timeout", f.cfg.Timeout)
			return "", Result{Outcome: TimedOut, Err: ErrTimeout}
		case <-ctx.Done():
			return "", f.fail(ctx.Err())
		case <-f.clock.After(f.cfg.PollInterval):
			f.progress(AwaitingToken, f.clock.Now().Sub(start))
		}
	}
}

func (f *Flow) fail(err error) Result {
	f.logger.Error("token capture failed", "error", err)
	return Result{Outcome: Errored, Err: err}
}
