package templates

import (
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// html accumulates markup and remembers the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) rawf(format string, args ...interface{}) {
	h.raw(fmt.Sprintf(format, args...))
}

func attr(s string) string {
	return templ.EscapeString(s)
}

func rangeQuery(from, to string) string {
	v := url.Values{}
	v.Set("from", from)
	v.Set("to", to)
	return v.Encode()
}

func exportURL(view, format, from, to string) templ.SafeURL {
	return templ.URL(fmt.Sprintf("/api/export/report?view=%s&format=%s&%s", view, format, rangeQuery(from, to)))
}
