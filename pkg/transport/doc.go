// Package transport defines the handler contract between the HTTP adapter
// and the engine, plus cross-cutting middleware (recovery, request IDs,
// logging) and error serialization.
package transport
