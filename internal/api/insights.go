package api

import (
	"errors"        // Error matching
	"fmt"           // Message formatting
	"net/http"      // HTTP status codes
	"path/filepath" // Upload extension check
	"strings"       // Case folding

	"hospital_insights/internal/analytics"  // Reporting pipeline
	"hospital_insights/internal/dataset"    // Dataset replacement
	"hospital_insights/internal/domain"     // Importing domain models
	"hospital_insights/internal/middleware" // Session, flash and document store helpers
	"hospital_insights/internal/store"      // Audit store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// DashboardHandler shows the headline metrics and regenerates the charts
func DashboardHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderPage(c, http.StatusOK, "insights/dashboard", gin.H{"Title": "Dashboard", "Dashboard": engine.Dashboard()})
	}
}

// OverviewHandler shows the data-quality report
func OverviewHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, ok := engine.Overview()
		if !ok {
			renderPage(c, http.StatusOK, "insights/no_data", gin.H{"Title": "Data overview"})
			return
		}
		renderPage(c, http.StatusOK, "insights/overview", gin.H{"Title": "Data overview", "Overview": overview})
	}
}

// VisualsHandler shows every chart and the correlation table
func VisualsHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		visuals := engine.Visuals()
		if !visuals.HasData {
			renderPage(c, http.StatusOK, "insights/no_data", gin.H{"Title": "Visuals"})
			return
		}
		renderPage(c, http.StatusOK, "insights/visuals", gin.H{"Title": "Visuals", "Visuals": visuals})
	}
}

// ActivityHandler lists the most recent audit entries
func ActivityHandler(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := store.NewAuditStore(middleware.DocHandle(c)).Recent(c.Request.Context(), limit)
		unavailable := errors.Is(err, domain.ErrDataUnavailable)
		if err != nil && !unavailable {
			logrus.WithError(err).Warn("Failed to read activity log")
			unavailable = true
		}
		renderPage(c, http.StatusOK, "insights/activity", gin.H{"Title": "Activity", "Entries": entries, "Unavailable": unavailable})
	}
}

// UploadPageHandler shows the dataset upload form
func UploadPageHandler(dataPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderPage(c, http.StatusOK, "insights/upload", gin.H{"Title": "Upload dataset", "DataPath": dataPath})
	}
}

// UploadHandler replaces the dataset with an uploaded CSV file
func UploadHandler(dataPath string, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(msg string) {
			renderPage(c, http.StatusOK, "insights/upload", gin.H{
				"Title":    "Upload dataset",
				"DataPath": dataPath,
				"Errors":   map[string]string{"dataset": msg},
			})
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64<<10) // Room for multipart framing
		header, err := c.FormFile("dataset")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				reject(fmt.Sprintf("The file is larger than %d bytes.", maxBytes))
				return
			}
			reject("Please choose a CSV file.")
			return
		}
		if header.Size > maxBytes {
			reject(fmt.Sprintf("The file is larger than %d bytes.", maxBytes))
			return
		}
		if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
			reject("Only .csv files are accepted.")
			return
		}

		file, err := header.Open()
		if err != nil {
			logrus.WithError(err).Error("Failed to open uploaded dataset")
			reject("The upload could not be read. Please try again.")
			return
		}
		defer file.Close()

		table, err := dataset.Replace(dataPath, file)
		if err != nil {
			if errors.Is(err, dataset.ErrMalformed) {
				reject("The file could not be read as CSV: " + err.Error())
				return
			}
			logrus.WithError(err).WithField("path", dataPath).Error("Failed to store uploaded dataset")
			reject("The dataset could not be saved. Please try again.")
			return
		}

		user := middleware.User(c)
		details := fmt.Sprintf("%s (%d rows, %d columns)", header.Filename, table.Rows(), len(table.Columns()))
		store.NewAuditStore(middleware.DocHandle(c)).Append(c.Request.Context(), user.Username, domain.ActionUploadDataset, details)
		logrus.WithFields(logrus.Fields{
			"file":    header.Filename,
			"rows":    table.Rows(),
			"columns": len(table.Columns()),
			"user":    user.Username,
		}).Info("Dataset replaced")

		middleware.AddFlash(c, "success", "Dataset uploaded: "+details+".")
		middleware.Redirect(c, dashboardPath)
	}
}
