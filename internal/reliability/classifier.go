package reliability

// IsRetryableHTTPStatus classifies provider status codes worth retrying on
// another attempt or provider.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
