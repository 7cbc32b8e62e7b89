package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "session_id"

func (s *Server) register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, ok := s.store.CreateUser(input.Username, input.Email, string(hashedPassword))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already exists"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// login answers with both credential flavors at once: a session cookie for
// cookie-based clients and a bearer token for token-based ones.
func (s *Server) login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, passwordHash, ok := s.store.UserByEmail(input.Email)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sessionID := uuid.NewString()
	s.store.OpenSession(sessionID, user.ID)
	c.SetCookie(sessionCookie, sessionID, int((72 * time.Hour).Seconds()), "/", "", false, true)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

// authRequired accepts either a bearer token or a session cookie and puts
// the viewer's id on the context.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := s.userFromBearer(c); ok {
			c.Set("user_id", userID)
			c.Next()
			return
		}
		if userID, ok := s.userFromSession(c); ok {
			c.Set("user_id", userID)
			c.Next()
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		c.Abort()
	}
}

func (s *Server) userFromBearer(c *gin.Context) (uint, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(rawID), true
}

func (s *Server) userFromSession(c *gin.Context) (uint, bool) {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}
	return s.store.SessionUser(sessionID)
}

func currentUserID(c *gin.Context) uint {
	raw, _ := c.Get("user_id")
	userID, _ := raw.(uint)
	return userID
}
