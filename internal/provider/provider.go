// Package provider holds what the third-party API adapters share: the
// not-found sentinel and resty plumbing.
package provider

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when a provider answered but had no matching record.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with a description of what was looked up.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

var safeName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SafeName reports whether s can be used as a cache file name as is.
func SafeName(s string) bool {
	return safeName.MatchString(s)
}

// NewClient returns a resty client rooted at host.
func NewClient(host string) *resty.Client {
	return resty.New().SetBaseURL(strings.TrimRight(host, "/"))
}

// CheckStatus turns non-2xx responses into errors naming the provider.
func CheckStatus(name string, resp *resty.Response) error {
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("%s returned non-2xx status: %d", name, resp.StatusCode())
	}
	return nil
}
