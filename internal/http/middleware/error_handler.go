package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/jobmarket-backend/internal/logger"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: известные AppError
// отдаются клиенту со своим статусом и сообщением, всё остальное
// маскируется как внутренняя ошибка. SQL и стектрейсы клиенту не утекают.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("необработанная ошибка запроса")
			}

			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
				return
			}

			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		}
	}
}
