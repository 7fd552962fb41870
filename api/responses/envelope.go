package responses

// SuccessEnvelope wraps every successful payload under a data key so the
// embedded app can unwrap responses uniformly.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a failed request: the stable error code,
// a caller-safe message, and optional details when the code allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
