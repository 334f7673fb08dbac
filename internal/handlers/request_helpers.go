package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// uintQuery lê um parâmetro numérico opcional; ausente ou inválido vira 0.
func uintQuery(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
