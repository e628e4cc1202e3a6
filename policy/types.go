package policy

// Decision is the gate's verdict for one request.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Deny sends an unauthenticated visitor to the sign-in page.
	Deny
	// Redirect sends a signed-in user away from public pages into the dashboard.
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}
