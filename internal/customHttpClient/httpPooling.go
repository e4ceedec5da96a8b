package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/CSVAgent/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// Get returns the shared client used by the agent SDKs so calls reuse connections.
// No client-level timeout: agent calls are bounded by their request context.
func Get() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
				ForceAttemptHTTP2:   true,
			},
		}
	})
	return client
}
