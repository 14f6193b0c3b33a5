package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// readImage reads a multipart image field. The content type is sniffed from
// the bytes; the client's header is not trusted.
func readImage(c *gin.Context, field string, maxBytes int64) ([]byte, string, bool) {
	if c.Request.ContentLength > 0 && c.Request.ContentLength > maxBytes+1024*1024 {
		badRequest(c, "Archivo demasiado grande")
		return nil, "", false
	}

	file, _, err := c.Request.FormFile(field)
	if err != nil {
		badRequest(c, "Archivo requerido")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		badRequest(c, "No se pudo leer el archivo")
		return nil, "", false
	}
	return data, http.DetectContentType(data), true
}
