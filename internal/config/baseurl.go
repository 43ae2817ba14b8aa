package config

// baseurl.go derives the externally reachable base URL of this app.
// The base URL is only used to build the returnUrl passed to the signing API
// in the recipient view request.

import "fmt"

// ResolveBaseURL returns the base URL the signing service should redirect
// back to after the ceremony.
//
// Precedence:
//  1. an explicitly configured URL (BASE_URL / RETURN_URL) is used verbatim
//  2. a hosting-platform project domain (PROJECT_DOMAIN) is expanded to the
//     platform's public URL
//  3. otherwise the listening host and port are assumed to be reachable
//
// Pure function - no side effects.
func ResolveBaseURL(explicitURL, projectDomain, host string, port int) string {
	if explicitURL != "" {
		return explicitURL
	}
	if projectDomain != "" {
		return fmt.Sprintf("https://%s.glitch.me", projectDomain)
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}
