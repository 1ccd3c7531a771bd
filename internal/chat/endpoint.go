package chat

import (
	"net"
	"net/url"
	"strings"
)

const (
	// LocalEndpoint is used when the site is served from the local machine.
	LocalEndpoint = "http://localhost:8080/chat"
	// ProductionEndpoint is used everywhere else.
	ProductionEndpoint = "https://api.latentecho.net/chat"
)

// IsLocalHost reports whether host, optionally with a port or scheme, names the local machine.
func IsLocalHost(host string) bool {
	host = strings.TrimSpace(host)
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	return host == "localhost" || host == "127.0.0.1"
}

// EndpointFor picks local when host is the local machine and production otherwise.
// Blank arguments fall back to LocalEndpoint and ProductionEndpoint.
func EndpointFor(host, local, production string) string {
	if local == "" {
		local = LocalEndpoint
	}
	if production == "" {
		production = ProductionEndpoint
	}
	if IsLocalHost(host) {
		return local
	}
	return production
}
