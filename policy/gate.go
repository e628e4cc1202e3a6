// Package policy decides which requests need a signed-in session.
package policy

import (
	"net/url"
	"path"
	"strings"

	"github.com/totegamma/invoicedash/internal/domain"
)

// ProtectedPrefix is the area that requires a session.
const ProtectedPrefix = domain.DashboardPath

// Decide is a pure function of its inputs and safe for concurrent use.
//
//	authenticated  protected  decision
//	false          yes        Deny
//	true           yes        Allow
//	true           no         Redirect (to the dashboard)
//	false          no         Allow
func Decide(authenticated bool, requestPath string) Decision {
	if IsProtected(requestPath) {
		if authenticated {
			return Allow
		}
		return Deny
	}
	if authenticated {
		return Redirect
	}
	return Allow
}

// IsProtected reports whether p is the dashboard or below it.
func IsProtected(p string) bool {
	return p == ProtectedPrefix || strings.HasPrefix(p, ProtectedPrefix+"/")
}

// Matches reports whether the gate runs for p at all. Anything starting with
// /api, static assets, images, health and metrics skip the session check.
func Matches(p string) bool {
	switch {
	case strings.HasPrefix(p, "/api"):
		return false
	case strings.HasPrefix(p, "/static/"):
		return false
	case strings.HasSuffix(p, ".png"):
		return false
	case p == "/healthz" || p == "/metrics":
		return false
	}
	return true
}

// SignInURL is where Deny sends the visitor, remembering where they were going.
func SignInURL(requested string) string {
	q := url.Values{domain.CallbackURLParam: {requested}}
	return domain.LoginPath + "?" + q.Encode()
}

// SafeCallback returns target if it is a local dashboard path, otherwise the
// dashboard root. It keeps sign-in redirects on this site.
func SafeCallback(target string) string {
	if target == "" {
		return domain.DashboardPath
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || strings.HasPrefix(target, "//") {
		return domain.DashboardPath
	}
	clean := path.Clean("/" + u.Path)
	if !IsProtected(clean) {
		return domain.DashboardPath
	}
	if u.RawQuery != "" {
		return clean + "?" + u.RawQuery
	}
	return clean
}
