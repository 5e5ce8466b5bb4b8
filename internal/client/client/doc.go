// Package client is the HTTP boundary of GophAccount.
//
// # Overview
//
// The Client interface lists every backend call the account lifecycle
// makes. RESTClient implements it over net/http with JSON bodies:
//   - a bounded timeout per attempt,
//   - an X-Request-ID header on every request,
//   - exponential backoff for GET calls that failed with ErrUnavailable or
//     ErrServer; mutating calls are sent exactly once.
//
// # Error Handling
//
// Every non-2xx response is returned as a typed error:
//   - 400/422: *common.ValidationError (matches ErrValidation), field
//     messages kept verbatim;
//   - 401/403: ErrUnauthorized; 404: ErrNotFound; 409: ErrConflict;
//   - 5xx: ErrServer; any other status: ErrRequest;
//   - no response or timeout: ErrUnavailable.
//
// Status classes other than validation are wrapped in *StatusError, which
// keeps the server detail. Use StatusOf and DetailOf to inspect either kind.
package client
