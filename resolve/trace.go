package resolve

import (
	"fmt"
	"log"
)

// Delegate receives non-controlling lifecycle callbacks from a Resolver as
// it runs. Every method may be called from the search goroutine or from a
// prefetch goroutine; implementations must be safe for concurrent use.
type Delegate interface {
	ContainerFetchBegin(id PackageId)
	ContainerFetchEnd(id PackageId, err error)
}

// NopDelegate implements Delegate with no-ops; it's the default when a
// Resolver is constructed without one.
type NopDelegate struct{}

func (NopDelegate) ContainerFetchBegin(PackageId)      {}
func (NopDelegate) ContainerFetchEnd(PackageId, error) {}

// tracer renders the search's decisions to a *log.Logger, indented by
// search depth, in the same glyph-and-indent style gps's own trace.go uses:
// a leading mark for the kind of event, then nesting proportional to how
// deep in the dependency tree the event occurred.
type tracer struct {
	logger *log.Logger
}

func newTracer(logger *log.Logger) *tracer {
	return &tracer{logger: logger}
}

func (t *tracer) indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	buf := make([]byte, depth*2)
	for i := range buf {
		buf[i] = ' '
	}
	return string(buf)
}

// tryVersion logs an attempt to bind id to v at the given depth.
func (t *tracer) tryVersion(depth int, id PackageId, v Version) {
	if t == nil || t.logger == nil {
		return
	}
	t.logger.Printf("%s? %s@%s", t.indent(depth), id, v)
}

// accepted logs a successful binding.
func (t *tracer) accepted(depth int, id PackageId, b BoundVersion) {
	if t == nil || t.logger == nil {
		return
	}
	t.logger.Printf("%s✓ %s@%s", t.indent(depth), id, b)
}

// rejected logs a binding rejected for reason.
func (t *tracer) rejected(depth int, id PackageId, b BoundVersion, reason string) {
	if t == nil || t.logger == nil {
		return
	}
	t.logger.Printf("%s✗ %s@%s (%s)", t.indent(depth), id, b, reason)
}

// backtrack logs abandoning the subtree rooted at id.
func (t *tracer) backtrack(depth int, id PackageId) {
	if t == nil || t.logger == nil {
		return
	}
	t.logger.Printf("%s← backtrack %s", t.indent(depth), id)
}

func (t *tracer) note(depth int, format string, args ...interface{}) {
	if t == nil || t.logger == nil {
		return
	}
	t.logger.Printf("%s%s", t.indent(depth), fmt.Sprintf(format, args...))
}
