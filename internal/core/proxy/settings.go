package proxy

import (
	"fmt"
	"math/rand"
)

// Settings describes one upstream residential proxy endpoint.
type Settings struct {
	Enabled  bool
	Hostname string
	Port     int
	Username string
	Password string
}

// HasProxy reports whether the endpoint is enabled and fully configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// HostPort returns the proxy host:port URL without credentials, the form
// Chromium accepts on its command line.
func (p Settings) HostPort() string {
	if !p.HasProxy() {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// FullURL returns the proxy URL with embedded credentials, for HTTP clients
// and the local forwarder.
func (p Settings) FullURL() string {
	if !p.HasProxy() {
		return ""
	}
	if p.Username != "" && p.Password != "" {
		return fmt.Sprintf("http://%s:%s@%s:%d", p.Username, p.Password, p.Hostname, p.Port)
	}
	return p.HostPort()
}

// Pool rotates scraper traffic across a set of upstream proxies. Terminals
// rate-limit aggressively by source IP, so each run picks a fresh endpoint.
type Pool struct {
	endpoints []Settings
}

// NewPool builds a pool from the configured endpoints, dropping any that are
// disabled or incomplete.
func NewPool(endpoints []Settings) *Pool {
	usable := make([]Settings, 0, len(endpoints))
	for _, e := range endpoints {
		if e.HasProxy() {
			usable = append(usable, e)
		}
	}
	return &Pool{endpoints: usable}
}

// Pick returns a random usable endpoint. The second return is false when the
// pool is empty, in which case callers scrape directly.
func (p *Pool) Pick() (Settings, bool) {
	if len(p.endpoints) == 0 {
		return Settings{}, false
	}
	return p.endpoints[rand.Intn(len(p.endpoints))], true
}

// Size returns the number of usable endpoints.
func (p *Pool) Size() int {
	return len(p.endpoints)
}
