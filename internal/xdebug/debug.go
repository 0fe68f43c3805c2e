// Package xdebug provides lightweight, always-compiled assertion and
// tracing helpers tagged with the calling goroutine's id, useful for
// diagnosing concurrency bugs in the optimistic lock coupling protocol.
package xdebug

import (
	"fmt"
	"os"
	"regexp"

	"github.com/timandy/routine"
)

// Filter, when non-nil, restricts Log output to lines matching the pattern.
// Nil (the default) means every Log call is printed.
var Filter *regexp.Regexp

// Assert panics with a formatted message if cond is false. Unlike a build-
// tag-gated assertion, this always runs; call sites should be reserved for
// invariants cheap enough to check unconditionally.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("olcart: assertion failed: "+format, args...))
	}
}

// Log writes a goroutine-tagged diagnostic line to stderr, subject to
// Filter.
func Log(format string, args ...any) {
	line := fmt.Sprintf("[g%d] %s\n", routine.Goid(), fmt.Sprintf(format, args...))
	if Filter != nil && !Filter.MatchString(line) {
		return
	}
	_, _ = os.Stderr.WriteString(line)
}
