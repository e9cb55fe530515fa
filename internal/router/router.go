package router

import (
	"net/http"
	"time"

	"interviewd/internal/config"
	"interviewd/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

// Handlers bundles the constructed handlers the router wires up.
type Handlers struct {
	Interview  *handlers.InterviewHandler
	Perception *handlers.PerceptionHandler
	Admin      *handlers.AdminHandler
}

func Setup(log *zap.Logger, h Handlers) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(corsMiddleware(config.Conf.Server.AllowedOrigins))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Perception ticks arrive several times per second per candidate, so
	// the limiter covers only the conversational endpoint.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "backend is running"})
	})

	interview := router.Group("/interview")
	{
		interview.POST("/start-session", h.Interview.StartSession)
		interview.POST("/ask", limiter, h.Interview.Ask)
	}

	router.POST("/log-behavior", h.Perception.LogBehavior)

	admin := router.Group("/admin")
	admin.Use(adminTokenRequired(log))
	{
		admin.GET("/interview-sessions", h.Admin.ListSessions)
		admin.GET("/qa-log", h.Admin.QALog)
		admin.GET("/behavior-logs", h.Admin.BehaviorLogs)
	}

	return router
}

// corsMiddleware admits only the configured front-end origins.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Admin-Token")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// adminTokenRequired is the authorization boundary for the audit endpoints.
// Anything richer than a shared token is out of scope here.
func adminTokenRequired(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := config.Conf.Server.AdminToken
		if token == "" || c.GetHeader("X-Admin-Token") != token {
			log.Warn("Rejected admin request", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
