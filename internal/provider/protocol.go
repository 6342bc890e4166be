package provider

// Wire types for version 1 of Cargo's credential-provider protocol.
// Messages are newline-delimited JSON: Cargo writes one request per line
// on the provider's stdin and reads one response per line from its
// stdout.

// protocolVersion is the only protocol version this provider speaks.
const protocolVersion = 1

// hello is the first line the provider emits, advertising the protocol
// versions it supports.
type hello struct {
	V []int `json:"v"`
}

// Registry identifies the registry a request concerns.
type Registry struct {
	IndexURL string `json:"index-url"`
	Name     string `json:"name,omitempty"`
}

// Request is one credential request from Cargo.
type Request struct {
	V         int      `json:"v"`
	Kind      string   `json:"kind"`
	Operation string   `json:"operation,omitempty"`
	Registry  Registry `json:"registry"`
	Args      []string `json:"args,omitempty"`
}

// Request kinds defined by the protocol. Only get is supported; this
// provider is read-only over the user's netrc.
const (
	KindGet    = "get"
	KindLogin  = "login"
	KindLogout = "logout"
)

// Cache policies a get response may advertise.
const (
	CacheSession = "session"
	CacheNever   = "never"
)

// getSuccess is the payload of a successful get response.
type getSuccess struct {
	Kind  string `json:"kind"`
	Token string `json:"token"`
	Cache string `json:"cache"`
	// OperationIndependent tells Cargo the token is valid regardless of
	// the operation (read vs publish), so it may be reused.
	OperationIndependent bool `json:"operation_independent"`
}

// wireError is the payload of a failure response. Kind is one of the
// protocol's kebab-case error kinds; Message is only set for kind
// "other".
type wireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
}

// Protocol error kinds.
const (
	errNotFound              = "not-found"
	errURLNotSupported       = "url-not-supported"
	errOperationNotSupported = "operation-not-supported"
	errOther                 = "other"
)

// response is the envelope written for every exchange: exactly one of Ok
// or Err is set.
type response struct {
	Ok  *getSuccess `json:"Ok,omitempty"`
	Err *wireError  `json:"Err,omitempty"`
}
