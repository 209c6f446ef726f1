package middleware

import (
	"context" // Request contexts
	"errors"  // Error matching

	"hospital_insights/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

const currentUserKey = "currentUser" // Context key for the loaded account

// UserFinder loads accounts by primary key
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// CurrentUser loads the signed-in account on every request so that renames
// and deletions take effect immediately. Must run after RequireLogin.
func CurrentUser(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			Redirect(c, LoginPath)
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logrus.WithError(err).WithField("user_id", userID).Error("Failed to load current user")
			}
			ClearSessionCookie(c) // Account vanished or store failed, force a new login
			AddFlash(c, "warning", "Please log in to access this page.")
			Redirect(c, LoginPath)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// User returns the account loaded by CurrentUser
func User(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
