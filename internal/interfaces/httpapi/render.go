package httpapi

import (
	"embed"
	"html/template"

	"github.com/unrolled/render"
)

//go:embed templates
var templates embed.FS

func newRender() *render.Render {
	return render.New(render.Options{
		Directory: "templates",
		Layout:    "layout",
		FileSystem: &render.EmbedFileSystem{
			FS: templates,
		},
		Funcs: []template.FuncMap{
			{
				"weekRange": weekRange,
			},
		},
	})
}

const (
	minWeek = 1
	maxWeek = 18
)

// weekRange is the numeric affordance of the week control. The stored week
// is never clamped to it.
func weekRange() [2]int {
	return [2]int{minWeek, maxWeek}
}
