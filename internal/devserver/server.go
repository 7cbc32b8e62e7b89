// Package devserver is an in-memory stand-in for the Chirp API, wire
// compatible with the production service. It exists for local development
// and for exercising the client end to end in tests.
package devserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	store     *Store
	jwtSecret []byte
}

func New(jwtSecret string) *Server {
	if jwtSecret == "" {
		jwtSecret = "chirp-dev-secret"
	}
	return &Server{
		store:     NewStore(),
		jwtSecret: []byte(jwtSecret),
	}
}

// Store exposes the backing store, mainly so tests can seed state.
func (s *Server) Store() *Store {
	return s.store
}

// Router builds the gin engine with the full API surface under /api.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/users", s.register)
		api.POST("/login", s.login)

		authorized := api.Group("")
		authorized.Use(s.authRequired())
		{
			authorized.GET("/me", s.me)
			authorized.GET("/users/:username", s.userProfile)

			authorized.GET("/posts", s.timeline)
			authorized.POST("/posts", s.createPost)
			authorized.GET("/posts/:id", s.getPost)
			authorized.GET("/posts/:id/replies", s.getReplies)
			authorized.DELETE("/posts/:id", s.deletePost)
			authorized.POST("/posts/:id/like", s.toggleLike)
			authorized.POST("/posts/:id/bookmark", s.toggleBookmark)
			authorized.GET("/bookmarks", s.bookmarks)

			authorized.GET("/dms", s.listDMs)
			authorized.GET("/dms/:id", s.conversation)
			authorized.POST("/dms", s.sendDM)
		}
	}

	return r
}
