package main

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"github.com/razzie/beepboop"
)

func DummyMiddleware(r *beepboop.PageRequest) *beepboop.View {
	return nil
}

// AuthMiddleware protects every page of the dev server with basic auth.
// It does nothing when neither a username nor a password is set.
func AuthMiddleware(username, password string) beepboop.Middleware {
	if len(username) == 0 && len(password) == 0 {
		return DummyMiddleware
	}
	return func(r *beepboop.PageRequest) *beepboop.View {
		reqUser, reqPass, ok := r.Request.BasicAuth()
		if !ok || !equal(reqUser, username) || !equal(reqPass, password) {
			return r.ErrorView("Unauthorized", http.StatusUnauthorized,
				beepboop.WithHeader("WWW-Authenticate", `Basic realm="video-tool", charset="UTF-8"`))
		}
		return nil
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SameOriginMiddleware rejects state changing requests a browser sent from
// another origin. Requests without an Origin header are not from a browser page.
func SameOriginMiddleware(r *beepboop.PageRequest) *beepboop.View {
	req := r.Request
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil
	}
	origin := req.Header.Get("Origin")
	if len(origin) == 0 {
		return nil
	}
	if u, err := url.Parse(origin); err == nil && u.Host == req.Host {
		return nil
	}
	return r.ErrorView("Forbidden", http.StatusForbidden)
}
