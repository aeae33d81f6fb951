// Package acl provides Anti-Corruption Layer patterns for translating between
// external service responses and domain types.
//
// # What is an Anti-Corruption Layer?
//
// The Anti-Corruption Layer (ACL) is a pattern from Domain-Driven Design that
// protects your domain model from external service representations. It acts as
// a translation boundary, ensuring that:
//
//   - External response shapes never leak into your domain
//   - External error codes map to domain errors
//   - External data is validated before creating domain objects
//   - Changes to external APIs don't ripple through your codebase
//
// # Package Components
//
// This package provides reusable patterns:
//
//   - [BaseAdapter]: Embeddable struct with common functionality
//   - [ErrorResponse]: Standard external error response parsing
//   - [MapHTTPError]: HTTP status code to domain error mapping
//   - [ParseErrorResponse]: JSON error body parsing
//   - [DecodeResponse]: Generic JSON response decoder
//
// See [TranscriptClient] for a complete working adapter: it embeds
// [BaseAdapter], decodes the provider body into an untyped payload, and
// surfaces the provider's in-band failure markers as domain errors.
//
// # Error Handling Strategy
//
// External services return errors in various formats:
//   - HTTP status codes (4xx, 5xx)
//   - Error response bodies with codes and messages
//   - Network/transport errors
//
// The ACL translates all of these to domain errors:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 409 Conflict → [domain.ErrConflict]
//   - 400/422 Validation → [domain.ErrValidation]
//   - 401/403 Forbidden → [domain.ErrForbidden]
//   - 429 Throttled → [domain.ErrProviderThrottled]
//   - 5xx/Network → [domain.ErrUnavailable]
//
// The transcript provider is a special case: it reports throttling and
// errors inside HTTP-200 bodies. [TranscriptClient] detects those markers
// and maps them to [domain.ErrProviderThrottled] as well.
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// are also translated to [domain.ErrUnavailable] with appropriate context.
package acl
