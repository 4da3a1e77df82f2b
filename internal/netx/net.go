// Package netx holds HTTP helpers shared by the bridge client and server.
package netx

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4096

// MultipartFile streams src as a single-part multipart/form-data body under
// field. It returns the body reader and the Content-Type header value. The
// body is produced lazily through a pipe, so src is never buffered whole.
func MultipartFile(field, filename, contentType string, src io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+escapeQuotes(field)+`"; filename="`+escapeQuotes(filename)+`"`)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// ReadErrorBody reads at most a few kilobytes of an error response body.
func ReadErrorBody(resp *http.Response) []byte {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return b
}

// IsTemporaryStatus reports whether an HTTP status points at a gateway or
// availability problem rather than a rejected request.
func IsTemporaryStatus(code int) bool {
	return code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}
