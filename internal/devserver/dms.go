package devserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) sendDM(c *gin.Context) {
	var input struct {
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Content    string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	senderID := currentUserID(c)
	if senderID == input.ReceiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a dm to yourself"})
		return
	}
	if _, ok := s.store.UserByID(input.ReceiverID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	dm := s.store.SendDM(senderID, input.ReceiverID, input.Content)
	c.JSON(http.StatusCreated, gin.H{"dm": dm})
}

func (s *Server) listDMs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dms": s.store.DMsFor(currentUserID(c))})
}

func (s *Server) conversation(c *gin.Context) {
	otherID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dms": s.store.Conversation(currentUserID(c), uint(otherID))})
}
