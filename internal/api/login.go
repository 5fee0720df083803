package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login verifies credentials against an active user and issues a bearer
// token. Unknown email and wrong password produce the same response, so
// the endpoint does not reveal which accounts exist.
func (r *Router) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := r.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil || !r.passwords.Verify(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "incorrect email or password"})
		return
	}

	token, err := r.tokens.Issue(user.Email, user.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	r.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
