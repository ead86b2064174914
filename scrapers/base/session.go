package base

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSuchElement is returned by FindElement when nothing matches the locator
	ErrNoSuchElement = errors.New("no such element")
	// ErrWaitTimeout is returned by WaitUntil when the condition never held
	ErrWaitTimeout = errors.New("wait timed out")
)

// Element is a handle to a node in the page the session is showing
type Element interface {
	// Click activates the element
	Click(ctx context.Context) error
	// Enabled reports whether the element can be interacted with
	Enabled(ctx context.Context) (bool, error)
}

// Session is a single browser session. It shows one URL at a time and is
// reused across URLs by whoever owns it.
type Session interface {
	// Navigate loads url in the session
	Navigate(ctx context.Context, url string) error
	// FindElement returns the first element matching the XPath locator.
	// It does not wait; ErrNoSuchElement means the element is not there yet.
	FindElement(ctx context.Context, xpath string) (Element, error)
	// Execute runs a JavaScript snippet. When out is non-nil the snippet's
	// return value is decoded into it.
	Execute(ctx context.Context, script string, out any) error
	// PageSource returns the currently rendered document markup
	PageSource(ctx context.Context) (string, error)
	// Close shuts the browser down
	Close() error
}

// Condition is polled by WaitUntil
type Condition func(ctx context.Context) (bool, error)

// WaitUntil polls cond every interval until it returns true, timeout elapses
// or ctx is done. Errors from cond are treated as "not yet".
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		if !time.Now().Before(deadline) {
			if lastErr != nil && !errors.Is(lastErr, ErrNoSuchElement) {
				return fmt.Errorf("%w after %s: %v", ErrWaitTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrWaitTimeout, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForElement waits until an element matching xpath exists and returns it
func WaitForElement(ctx context.Context, s Session, xpath string, timeout, interval time.Duration) (Element, error) {
	var found Element
	err := WaitUntil(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		el, err := s.FindElement(ctx, xpath)
		if err != nil {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", xpath, err)
	}
	return found, nil
}

// WaitForAbsence waits until nothing matches xpath
func WaitForAbsence(ctx context.Context, s Session, xpath string, timeout, interval time.Duration) error {
	return WaitUntil(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		_, err := s.FindElement(ctx, xpath)
		if errors.Is(err, ErrNoSuchElement) {
			return true, nil
		}
		return false, err
	})
}

// WithPageLoadTimeout bounds a page load. A zero or negative d only
// inherits ctx's own deadline.
func WithPageLoadTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// ScrollToBottom scrolls the window to the end of the document
func ScrollToBottom(ctx context.Context, s Session) error {
	return s.Execute(ctx, "window.scrollTo(0, document.body.scrollHeight)", nil)
}
