package handlers

import (
	"socialnet/internal/hub"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *hub.Hub
}

func NewWSHandler(h *hub.Hub) *WSHandler {
	return &WSHandler{hub: h}
}

// Serve attaches the client to the live feed stream.
func (h *WSHandler) Serve(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
