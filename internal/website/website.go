// Package website defines the website record and its JSON batch format.
package website

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Website is a single entry of the remote list. ID is assigned locally when a
// batch is decoded and is never part of the external representation.
type Website struct {
	ID          string
	Name        string
	URL         string
	Icon        string
	Description string
}

// New builds a record with a fresh random ID.
func New(name, rawURL, icon, description string) Website {
	return Website{
		ID:          RandomID(name, rawURL),
		Name:        name,
		URL:         rawURL,
		Icon:        icon,
		Description: description,
	}
}

// SameContent reports whether two records carry the same fields, ignoring ID.
func (w Website) SameContent(other Website) bool {
	return w.Name == other.Name &&
		w.URL == other.URL &&
		w.Icon == other.Icon &&
		w.Description == other.Description
}

// Domain returns the registrable domain of the record's URL, falling back to
// the bare host when the public suffix list has no answer.
func (w Website) Domain() string {
	trimmed := strings.TrimSpace(w.URL)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// IDFunc assigns an identity to a decoded record.
type IDFunc func(name, rawURL string) string

// RandomID returns a new random UUID for every call.
func RandomID(string, string) string {
	return uuid.NewString()
}

// ContentID derives a name-based UUID from the normalized name and URL, so the
// same record decoded twice keeps the same identity.
func ContentID(name, rawURL string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.TrimSpace(rawURL)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
