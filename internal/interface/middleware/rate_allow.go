package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses rate limiting for loopback and private-range clients
// (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, fc00::/7).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		return isPrivate(net.ParseIP(ipFromCtx(c)))
	}
}

func isPrivate(ip net.IP) bool {
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}
