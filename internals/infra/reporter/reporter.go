// Package reporter forwards unexpected server errors to Rollbar.
package reporter

import (
	"log"

	"github.com/rollbar/rollbar-go"
)

type Reporter interface {
	Error(err error, extras map[string]any)
	Close()
}

type RollbarReporter struct{}

// New returns a Rollbar reporter, or Nop when token is empty.
func New(token, env, host string) Reporter {
	if token == "" {
		return Nop{}
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetServerHost(host)
	rollbar.SetEnabled(true)
	log.Printf("[ROLLBAR] error reporting enabled (env=%s)", env)
	return RollbarReporter{}
}

func (RollbarReporter) Error(err error, extras map[string]any) {
	if err == nil {
		return
	}
	if len(extras) > 0 {
		rollbar.Error(err, extras)
		return
	}
	rollbar.Error(err)
}

// Close flushes pending items.
func (RollbarReporter) Close() {
	rollbar.Wait()
}

type Nop struct{}

func (Nop) Error(error, map[string]any) {}
func (Nop) Close()                      {}
