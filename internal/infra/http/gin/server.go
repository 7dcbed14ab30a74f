package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"teamdesk/internal/infra/config"
	"teamdesk/internal/infra/obs"
)

type ContactHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type ConversationHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddParticipants(c *gin.Context)
	RemoveParticipants(c *gin.Context)
}

type TaskHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetStatus(c *gin.Context)
	SetPriority(c *gin.Context)
}

type Handlers struct {
	Contacts      ContactHTTP
	Conversations ConversationHTTP
	Tasks         TaskHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	router.Use(Identity())

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Contacts != nil {
		contacts := api.Group("/contacts")
		contacts.GET("", h.Contacts.List)
		contacts.POST("", h.Contacts.Create)
		contacts.GET("/:id", h.Contacts.Get)
		contacts.PATCH("/:id", h.Contacts.Update)
		contacts.DELETE("/:id", h.Contacts.Delete)
	}
	if h.Conversations != nil {
		conversations := api.Group("/conversations")
		conversations.GET("", h.Conversations.List)
		conversations.POST("", h.Conversations.Create)
		conversations.GET("/:id", h.Conversations.Get)
		conversations.PATCH("/:id", h.Conversations.Update)
		conversations.DELETE("/:id", h.Conversations.Delete)
		conversations.POST("/:id/participants", h.Conversations.AddParticipants)
		conversations.DELETE("/:id/participants", h.Conversations.RemoveParticipants)
	}
	if h.Tasks != nil {
		tasks := api.Group("/tasks")
		tasks.GET("", h.Tasks.List)
		tasks.POST("", h.Tasks.Create)
		tasks.GET("/:id", h.Tasks.Get)
		tasks.PATCH("/:id", h.Tasks.Update)
		tasks.DELETE("/:id", h.Tasks.Delete)
		tasks.PUT("/:id/status", h.Tasks.SetStatus)
		tasks.PUT("/:id/priority", h.Tasks.SetPriority)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ ContactHTTP      = ContactHandler{}
	_ ConversationHTTP = ConversationHandler{}
	_ TaskHTTP         = TaskHandler{}
)
