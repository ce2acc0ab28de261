package router

import "github.com/gin-gonic/gin"

// Module mounts a group of routes. Contact, health and metrics modules all implement it.
type Module interface {
	Register(rg *gin.RouterGroup)
}
