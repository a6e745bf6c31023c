package fetch

// ErrorCode classifies fetch failures for failure.Is checks.
type ErrorCode string

const (
	// ErrInvalidEndpoint means the configured source URL cannot be used.
	ErrInvalidEndpoint ErrorCode = "InvalidEndpoint"
	// ErrTransport covers timeouts, DNS, TLS and refused connections.
	ErrTransport ErrorCode = "TransportFailure"
	// ErrHTTPStatus means the source answered outside 200-299.
	ErrHTTPStatus ErrorCode = "HTTPStatusFailure"
	// ErrDecode means the source body was not a valid website batch.
	ErrDecode ErrorCode = "DecodeFailure"
	// ErrCacheUnavailable means the network failed and no cached payload could be read.
	ErrCacheUnavailable ErrorCode = "CacheUnavailable"
	// ErrCacheCorrupt means the network failed and the cached payload did not decode.
	ErrCacheCorrupt ErrorCode = "CacheCorrupt"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// fallbackReason maps a first-stage code to its metrics label.
func fallbackReason(code ErrorCode) string {
	switch code {
	case ErrTransport:
		return "transport"
	case ErrHTTPStatus:
		return "status"
	case ErrDecode:
		return "decode"
	default:
		return "unknown"
	}
}
