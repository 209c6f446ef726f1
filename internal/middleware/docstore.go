package middleware

import (
	"hospital_insights/internal/store" // Document store handle

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

const docHandleKey = "docHandle" // Context key for the request-scoped document store handle

// DocumentStore pins one pooled connection to the request and releases it
// when the handler chain returns, on every exit path. The connection is
// dialed lazily by the first command.
func DocumentStore(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn := rdb.Conn()
		defer func() {
			if err := conn.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to release document store connection")
			}
		}()

		c.Set(docHandleKey, conn)
		c.Next()
	}
}

// DocHandle returns the handle installed by DocumentStore
func DocHandle(c *gin.Context) store.Handle {
	return c.MustGet(docHandleKey).(store.Handle)
}
