package rline

import "fmt"

type outcomeKind uint8

const (
	outcomeContinue outcomeKind = iota
	outcomeSkipRoute
	outcomeSkipRouter
)

// Outcome is what a handler reports through its continuation,
// and what a dispatch reports through its done callback.
// It is one of Continue (optionally carrying an error), SkipRoute or SkipRouter.
type Outcome struct {
	kind outcomeKind
	err  error
}

var (
	// SkipRoute stops the current route and treats it as successfully handled.
	SkipRoute = Outcome{kind: outcomeSkipRoute}

	// SkipRouter stops the current route and defers the request to the owning router.
	SkipRouter = Outcome{kind: outcomeSkipRouter}
)

// Continue advances to the next handler with no pending error.
func Continue() Outcome {
	return Outcome{}
}

// Fail advances to the next error handler with err pending.
// Fail(nil) is the same as Continue().
func Fail(err error) Outcome {
	return Outcome{err: err}
}

// Err returns the pending error, if any.
func (o Outcome) Err() error {
	if o.kind != outcomeContinue {
		return nil
	}
	return o.err
}

// OK reports whether the outcome is a Continue with no error.
func (o Outcome) OK() bool {
	return o.kind == outcomeContinue && o.err == nil
}

// IsSkipRoute reports whether the outcome is SkipRoute.
func (o Outcome) IsSkipRoute() bool {
	return o.kind == outcomeSkipRoute
}

// IsSkipRouter reports whether the outcome is SkipRouter.
func (o Outcome) IsSkipRouter() bool {
	return o.kind == outcomeSkipRouter
}

func (o Outcome) String() string {
	switch o.kind {
	case outcomeSkipRoute:
		return "skip-route"
	case outcomeSkipRouter:
		return "skip-router"
	}
	if o.err != nil {
		return fmt.Sprintf("fail(%v)", o.err)
	}
	return "continue"
}

// Next is the continuation handed to every handler.
// Calling it moves control to the dispatcher. Only the first call counts.
type Next func(Outcome)

// Done receives the final outcome of a dispatch.
// It is called with Continue() on success, Fail(err) for an unresolved error,
// or SkipRouter when the request should be routed elsewhere.
type Done func(Outcome)
