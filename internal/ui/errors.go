package ui

import (
	"github.com/morikuni/failure/v2"

	"github.com/five82/sitelist/internal/fetch"
)

// describeError turns a fetch error into the message shown to the user.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case failure.Is(err, fetch.ErrInvalidEndpoint):
		return "The website list address is invalid. Check the endpoint setting."
	case failure.Is(err, fetch.ErrCacheUnavailable):
		return "Unable to load websites and no offline copy is available."
	case failure.Is(err, fetch.ErrCacheCorrupt):
		return "Unable to load websites and the offline copy is damaged."
	}
	if msg := failure.MessageOf(err); msg != "" {
		return msg.String()
	}
	return firstLine(err.Error())
}
