package renderer

import (
	"github.com/unrolled/render"
)

// New returns the JSON renderer shared by all handlers.
func New(debug bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    debug,
		UnEscapeHTML:  true,
		StreamingJSON: false,
		Charset:       "UTF-8",
	})
}
