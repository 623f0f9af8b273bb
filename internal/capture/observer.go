package capture

import (
	"strings"
	"sync/atomic"
)

const tokenScheme = "Token "

// TokenObserver captures the first "Authorization: Token <value>" header it
// sees and ignores every later one.
type TokenObserver struct {
	token atomic.Pointer[string]
	done  chan struct{}
}

// NewTokenObserver creates an empty observer.
func NewTokenObserver() *TokenObserver {
	return &TokenObserver{done: make(chan struct{})}
}

// Observe inspects one request. It is safe for concurrent use.
func (o *TokenObserver) Observe(r Request) {
	if o.token.Load() != nil {
		return
	}
	token, ok := parseToken(r.Header("Authorization"))
	if !ok {
		return
	}
	if o.token.CompareAndSwap(nil, &token) {
		close(o.done)
	}
}

// Token returns the captured token, if any.
func (o *TokenObserver) Token() (string, bool) {
	if t := o.token.Load(); t != nil {
		return *t, true
	}
	return "", false
}

// Done is closed once a token has been captured.
func (o *TokenObserver) Done() <-chan struct{} {
	return o.done
}

func parseToken(header string) (string, bool) {
	if !strings.HasPrefix(header, tokenScheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(tokenScheme):])
	return token, token != ""
}
