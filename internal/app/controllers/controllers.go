package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// serveWorkbook writes an xlsx buffer as a file download
func serveWorkbook(ctx *gin.Context, filename string, buf *bytes.Buffer) {
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Header("Content-Length", strconv.Itoa(buf.Len()))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
