package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/agenda-api/internal/interface/http"
)

// ContactModule wires the agenda routes:
// GET /agenda, GET /agenda/search, GET /agenda/:id, POST /agenda, PUT /agenda/:id, DELETE /agenda/:id
type ContactModule struct {
	Handler    *handlers.ContactHandler
	Middleware []gin.HandlerFunc
}

func NewContactModule(h *handlers.ContactHandler, mw ...gin.HandlerFunc) *ContactModule {
	return &ContactModule{Handler: h, Middleware: mw}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/agenda", m.Middleware...)
	{
		g.GET("", m.Handler.List)
		g.GET("/search", m.Handler.Search)
		g.GET("/:id", m.Handler.Get)
		g.POST("", m.Handler.Create)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
