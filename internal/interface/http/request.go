package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pokedex-api/internal/application"
)

const avatarField = "profileImage"

var errFileTooLarge = errors.New("File too large")

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

// readAvatar returns the uploaded profile image, or nil when none was sent.
func readAvatar(c *gin.Context, max int64) ([]byte, error) {
	fh, err := c.FormFile(avatarField)
	if err != nil {
		if tooLarge(err) {
			return nil, errFileTooLarge
		}
		return nil, nil
	}
	if max > 0 && fh.Size > max {
		return nil, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
