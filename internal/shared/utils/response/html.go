package response

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"boxoffice/internal/navigation"
	"boxoffice/internal/views"
)

// RenderHTML serializes a page tree and writes it with the given status
func RenderHTML(c *gin.Context, code int, doc *html.Node) {
	var buf bytes.Buffer
	if err := views.Render(&buf, doc); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

// RenderPage wraps body in the site layout
func RenderPage(c *gin.Context, code int, title string, links navigation.LinkSet, body ...*html.Node) {
	RenderHTML(c, code, views.Layout(title, links, body...))
}

// RespondHTML writes a bare error page for failures that happen before the
// navigation state is known
func RespondHTML(c *gin.Context, code int, title, message string) {
	RenderHTML(c, code, views.Layout(title, navigation.LinkSet{}, views.Heading(title), views.ErrorMessage(message)))
}
