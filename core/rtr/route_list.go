package rtr

// RouteList represents a registered handler for debugging and inspection purposes.
// Routers expose their tables in this human-readable form.
//
// Fields:
//   - Method: verb label the handler was registered with (ALL, GET)
//   - Path: the selector the handler is bound to
//   - HandlerRef: name of the handler function
//   - ErrorHandler: whether the handler is error-capable
type RouteList struct {
	Method       string
	Path         string
	HandlerRef   string
	ErrorHandler bool
}
