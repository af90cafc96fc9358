package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HostRouter sends dashboard-host traffic into the /app tree: "/" redirects
// to /dashboard and every other path is served from /app<path>. Other hosts
// pass through untouched.
func HostRouter(next http.Handler, dashboardHost string) http.Handler {
	dashboardHost = strings.ToLower(dashboardHost)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hostname(r.Host) != dashboardHost {
			next.ServeHTTP(w, r)
			return
		}

		if r.URL.Path == "/" || r.URL.Path == "" {
			http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
			return
		}

		if r.URL.Path != "/app" && !strings.HasPrefix(r.URL.Path, "/app/") {
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/app" + r.URL.Path
			if r.URL.RawPath != "" {
				r2.URL.RawPath = "/app" + r.URL.RawPath
			}
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}

func hostname(hostport string) string {
	h := hostport
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		h = host
	}
	return strings.ToLower(strings.TrimSuffix(h, "."))
}
