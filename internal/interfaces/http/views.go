package http

import (
	"embed"
	"html/template"
	"io/fs"
	nethttp "net/http"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

//go:embed views/*.html
var viewsFS embed.FS

// NewViews motor de plantillas sobre los archivos embebidos en views/.
//
// Los textos del catálogo se guardan ya saneados (marcado escapado), por eso las
// plantillas los pasan por "safe" en lugar de escaparlos otra vez.
func NewViews() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(nethttp.FS(sub), ".html")
	engine.AddFunc("safe", func(s string) template.HTML { return template.HTML(s) })
	engine.AddFunc("money", func(d decimal.Decimal) string { return d.StringFixed(2) })
	return engine
}
