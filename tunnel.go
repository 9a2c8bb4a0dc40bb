package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

var errNoTunnelToken = errors.New("ngrok enabled but no auth token (use -ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")

// tunnelSettings describes the optional public ngrok endpoint
type tunnelSettings struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// resolveTunnelSettings merges flags with the NGROK_* environment; flags win when set
func resolveTunnelSettings(enabled bool, authToken, domain string, getenv func(string) string) tunnelSettings {
	if !enabled {
		v := getenv("NGROK_ENABLED")
		enabled = v == "true" || v == "1"
	}
	if authToken == "" {
		authToken = getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		authToken = getenv("NGROK_AUTH_TOKEN")
	}
	if domain == "" {
		domain = getenv("NGROK_DOMAIN")
	}
	return tunnelSettings{Enabled: enabled, AuthToken: authToken, Domain: domain}
}

// endpoint returns the ngrok HTTP endpoint for the configured domain
func (s tunnelSettings) endpoint() ngrokConfig.Tunnel {
	if s.Domain != "" {
		return ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.Domain))
	}
	return ngrokConfig.HTTPEndpoint()
}

// serveTunnel opens the tunnel, reports its public URL to onReady and serves
// handler through it until ctx is done.
func serveTunnel(ctx context.Context, s tunnelSettings, handler http.Handler, onReady func(url string)) error {
	if s.AuthToken == "" {
		return errNoTunnelToken
	}

	tun, err := ngrok.Listen(ctx, s.endpoint(), ngrok.WithAuthtoken(s.AuthToken))
	if err != nil {
		return fmt.Errorf("failed to start tunnel: %w", err)
	}

	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	onReady(tun.URL())

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
