// Package acl provides the Anti-Corruption Layer between the external NLP and
// machine translation backends and the domain.
//
// Each adapter owns the wire format of one backend and converts it to domain
// types, so backend DTOs never leak past this package:
//
//   - [UDPipeTagger]: ports.Tagger over a UDPipe 2 REST server (CoNLL-U output)
//   - [LibreTranslate]: ports.Translator over a LibreTranslate server
//   - [GoogleTranslate]: ports.Translator over Cloud Translation v2
//
// Adapters embed [BaseAdapter], which performs the call through the shared
// instrumented client and maps every failure with [MapHTTPError].
//
// # Error Handling Strategy
//
// Backends fail in several ways:
//   - HTTP status codes (4xx, 5xx), often with an error body
//   - Network/transport errors
//   - Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
//
// All of them become one domain error per adapter kind:
//   - translation adapters → [domain.ErrTranslationUnavailable]
//   - the tagger → [domain.ErrModelUnavailable]
//
// Only cancellation by the caller passes through unchanged.
package acl
