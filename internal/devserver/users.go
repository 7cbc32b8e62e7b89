package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) me(c *gin.Context) {
	user, ok := s.store.UserByID(currentUserID(c))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) userProfile(c *gin.Context) {
	user, ok := s.store.UserByUsername(c.Param("username"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
