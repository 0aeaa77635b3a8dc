package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home godoc
// @Summary Service banner
// @Tags home
// @Produce  plain
// @Success 200 {string} string "voucher engine"
// @Router / [get]
func home(c *gin.Context) {
	c.String(http.StatusOK, "voucher engine")
}

// health godoc
// @Summary Liveness probe
// @Tags home
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /health [get]
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
