package utils

import (
	"net/http"
	"net/url"
	"time"
)

type HTTPClientConfig struct {
	Timeout       time.Duration // zero means no client timeout
	KATimeout     time.Duration
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string
	UserAgent     string
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type FetchHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

// NewFetchHTTPClient builds a client on top of a clone of http.DefaultTransport. A zero
// config keeps net/http's TLS, redirect, timeout and connection reuse defaults. Transparent
// gzip is always disabled so the raw body bytes reach the file, and every request carries
// a User-Agent.
func NewFetchHTTPClient(cfg HTTPClientConfig) *FetchHTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true
	if cfg.KATimeout > 0 {
		transport.IdleConnTimeout = cfg.KATimeout
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err == nil {
			if cfg.ProxyUsername != "" {
				if cfg.ProxyPassword != "" {
					proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
				} else {
					proxyURL.User = url.User(cfg.ProxyUsername)
				}
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &FetchHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

func (c *FetchHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", ToolUserAgent)
	}
	return c.client.Do(req)
}

// SplitProxyAuth moves credentials embedded in the proxy URL into the dedicated fields
// unless a username was already given.
func SplitProxyAuth(cfg HTTPClientConfig) HTTPClientConfig {
	parsed, err := url.Parse(cfg.ProxyURL)
	if err != nil || parsed.User == nil || cfg.ProxyUsername != "" {
		return cfg
	}
	cfg.ProxyUsername = parsed.User.Username()
	if password, set := parsed.User.Password(); set {
		cfg.ProxyPassword = password
	}
	parsed.User = nil
	cfg.ProxyURL = parsed.String()
	return cfg
}
