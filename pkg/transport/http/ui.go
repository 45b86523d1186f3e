package http

import (
	_ "embed"
	"net/http"
)

//go:embed chat.html
var chatPage []byte

// handleUI serves the embedded single-page chat client.
func (a *Adapter) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(chatPage)
}
