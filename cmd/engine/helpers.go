package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net"
	"net/http"
	"time"

	"welux-admin/internal/httpapi"
)

const shutdownHeader = "X-Shutdown-Token"

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// fromLoopback reports whether r came from this machine. RemoteAddr may
// lack a port when the server sits behind a test harness.
func fromLoopback(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// shutdownHandler lets the shell stop the engine. Only a loopback caller
// holding the token printed at boot is accepted; stop runs after the reply
// has been written.
func shutdownHandler(token string, stop func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fromLoopback(r) {
			httpapi.WriteError(w, r, http.StatusForbidden, "forbidden", "shutdown is local only")
			return
		}
		got := r.Header.Get(shutdownHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httpapi.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "bad shutdown token")
			return
		}

		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
		log.Printf("level=info msg=\"shutdown requested\" request_id=%s", httpapi.RequestIDFrom(r.Context()))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := stop(ctx); err != nil {
				log.Printf("level=warn msg=\"shutdown incomplete\" err=%v", err)
			}
		}()
	}
}
