package middleware

import (
	"strings"

	"github.com/blutspende/logviewer/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CreateCorsMiddleware(config *config.Configuration) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	origins := strings.Split(config.PermittedOrigin, ",")
	if config.PermittedOrigin == "" || config.PermittedOrigin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}

	corsConfig.AllowHeaders = []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"accept",
		"origin",
		"Cache-Control",
		"X-Requested-With",
	}

	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"DELETE",
	}

	return cors.New(corsConfig)
}
