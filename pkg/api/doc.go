// Package api defines the wire types of the poolchat chat endpoint, the
// structured error taxonomy shared by all layers, and identifier
// generation/validation for conversations and execution sessions.
package api
