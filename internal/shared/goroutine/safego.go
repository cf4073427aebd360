// Package goroutine launches background loops that must not take the process
// down when they panic.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// Go runs fn in a new goroutine. A panic is logged with its stack trace. The
// returned channel is closed once fn has returned or panicked.
func Go(log logger.Interface, name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
	return done
}
