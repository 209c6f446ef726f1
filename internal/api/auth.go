package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"hospital_insights/internal/config"     // Configuration
	"hospital_insights/internal/domain"     // Importing domain models
	"hospital_insights/internal/middleware" // Session and flash helpers
	"hospital_insights/internal/store"      // Credential and audit stores
	"hospital_insights/internal/utils"      // Session tokens

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

const (
	dashboardPath = "/insights/dashboard" // Landing page after sign-in
	loginFailure  = "Invalid username or password."
)

// IndexHandler sends signed-in users to the dashboard and everyone else
// to the login page
func IndexHandler(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.SessionClaims(c, secret); ok {
			c.Redirect(http.StatusFound, dashboardPath)
			return
		}
		c.Redirect(http.StatusFound, middleware.LoginPath)
	}
}

// LoginPageHandler shows the sign-in form
func LoginPageHandler(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.SessionClaims(c, secret); ok {
			c.Redirect(http.StatusFound, dashboardPath)
			return
		}
		renderPage(c, http.StatusOK, "auth/login", gin.H{"Title": "Sign in", "Form": LoginForm{}})
	}
}

// LoginHandler checks the credentials and starts a session
func LoginHandler(users *store.CredentialStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form LoginForm
		if err := bindForm(c, &form); err != nil {
			renderPage(c, http.StatusOK, "auth/login", gin.H{"Title": "Sign in", "Form": form, "Errors": fieldErrors(err)})
			return
		}

		user, ok := users.Verify(c.Request.Context(), form.Username, form.Password)
		if !ok {
			// Unknown user and wrong password read the same
			middleware.AddFlash(c, "warning", loginFailure)
			renderPage(c, http.StatusOK, "auth/login", gin.H{"Title": "Sign in", "Form": LoginForm{Username: form.Username}})
			return
		}

		token, err := utils.GenerateSessionToken(user.ID, user.Username, cfg.SecretKey, cfg.SessionTTL)
		if err != nil {
			logrus.WithError(err).Error("Failed to generate session token")
			middleware.AddFlash(c, "danger", "Could not start a session. Please try again.")
			renderPage(c, http.StatusInternalServerError, "auth/login", gin.H{"Title": "Sign in", "Form": LoginForm{Username: form.Username}})
			return
		}
		middleware.SetSessionCookie(c, token, cfg.SessionTTL, cfg.IsProd)
		middleware.AddFlash(c, "success", "Welcome back, "+user.Username+".")
		middleware.Redirect(c, dashboardPath)
	}
}

// RegisterPageHandler shows the sign-up form
func RegisterPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderPage(c, http.StatusOK, "auth/register", gin.H{"Title": "Create account", "Form": RegisterForm{}})
	}
}

// RegisterHandler creates an account
func RegisterHandler(users *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form RegisterForm
		if err := bindForm(c, &form); err != nil {
			renderPage(c, http.StatusOK, "auth/register", gin.H{"Title": "Create account", "Form": RegisterForm{Username: form.Username}, "Errors": fieldErrors(err)})
			return
		}

		user, err := users.Register(c.Request.Context(), form.Username, form.Password)
		switch {
		case errors.Is(err, domain.ErrConflict):
			middleware.AddFlash(c, "warning", "Username already exists. Please choose another.")
			renderPage(c, http.StatusOK, "auth/register", gin.H{"Title": "Create account", "Form": RegisterForm{Username: form.Username}})
			return
		case errors.Is(err, domain.ErrValidation):
			renderPage(c, http.StatusOK, "auth/register", gin.H{"Title": "Create account", "Form": RegisterForm{Username: form.Username}, "Errors": fieldErrors(err)})
			return
		case err != nil:
			logrus.WithError(err).WithField("username", form.Username).Error("Failed to register user")
			middleware.AddFlash(c, "danger", "Could not create the account. Please try again.")
			renderPage(c, http.StatusInternalServerError, "auth/register", gin.H{"Title": "Create account", "Form": RegisterForm{Username: form.Username}})
			return
		}

		store.NewAuditStore(middleware.DocHandle(c)).Append(c.Request.Context(), user.Username, domain.ActionRegisterUser, "Registered account "+user.Username)
		middleware.AddFlash(c, "success", "Account created. You can now sign in.")
		middleware.Redirect(c, middleware.LoginPath)
	}
}

// LogoutHandler ends the session
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearSessionCookie(c)
		middleware.AddFlash(c, "info", "You have been logged out.")
		middleware.Redirect(c, middleware.LoginPath)
	}
}

// ProfilePageHandler shows the profile form
func ProfilePageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.User(c)
		renderPage(c, http.StatusOK, "auth/profile", gin.H{"Title": "Profile", "Form": ProfileForm{Username: user.Username}})
	}
}

// ProfileHandler renames the account and/or changes its password. The
// current password is required for either change.
func ProfileHandler(users *store.CredentialStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.User(c)
		ctx := c.Request.Context()

		var form ProfileForm
		if err := bindForm(c, &form); err != nil {
			renderPage(c, http.StatusOK, "auth/profile", gin.H{"Title": "Profile", "Form": ProfileForm{Username: form.Username}, "Errors": fieldErrors(err)})
			return
		}
		rename := form.Username != user.Username
		if !rename && form.NewPassword == "" {
			middleware.AddFlash(c, "info", "No changes to save.")
			middleware.Redirect(c, "/auth/profile")
			return
		}

		change := store.ProfileChange{Password: form.NewPassword}
		if rename {
			change.Username = form.Username
		}
		if _, err := users.UpdateProfile(ctx, user.ID, form.CurrentPassword, change); err != nil {
			profileFailure(c, form, err)
			return
		}

		var changes []string
		if rename {
			changes = append(changes, "username "+user.Username+" -> "+form.Username)
		}
		if form.NewPassword != "" {
			changes = append(changes, "password")
		}

		if rename {
			// The session carries the username, so reissue it
			if token, err := utils.GenerateSessionToken(user.ID, form.Username, cfg.SecretKey, cfg.SessionTTL); err == nil {
				middleware.SetSessionCookie(c, token, cfg.SessionTTL, cfg.IsProd)
			} else {
				logrus.WithError(err).Warn("Failed to reissue session token")
			}
		}

		details := "Updated " + changes[0]
		if len(changes) > 1 {
			details += " and " + changes[1]
		}
		store.NewAuditStore(middleware.DocHandle(c)).Append(ctx, form.Username, domain.ActionUpdateProfile, details)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "changes": changes}).Info("Profile updated")

		middleware.AddFlash(c, "success", "Profile updated.")
		middleware.Redirect(c, "/auth/profile")
	}
}

// profileFailure re-renders the profile form for a rejected change
func profileFailure(c *gin.Context, form ProfileForm, err error) {
	data := gin.H{"Title": "Profile", "Form": ProfileForm{Username: form.Username}}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		data["Errors"] = map[string]string{"current_password": "Current password is incorrect."}
	case errors.Is(err, domain.ErrConflict):
		middleware.AddFlash(c, "warning", "Username already exists. Please choose another.")
	case errors.Is(err, domain.ErrValidation):
		errs := fieldErrors(err)
		if msg, ok := errs["password"]; ok {
			errs = map[string]string{"new_password": msg} // The store names the field after the column
		}
		data["Errors"] = errs
	default:
		logrus.WithError(err).Error("Failed to update profile")
		middleware.AddFlash(c, "danger", "Could not update the profile. Please try again.")
		renderPage(c, http.StatusInternalServerError, "auth/profile", data)
		return
	}
	renderPage(c, http.StatusOK, "auth/profile", data)
}
