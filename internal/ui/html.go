package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/button"
	"github.com/muurk/consolekit/internal/config"
	"github.com/muurk/consolekit/internal/defuse"
	"github.com/muurk/consolekit/internal/logging"
)

// buttonView is the template data of one button.
type buttonView struct {
	Label    template.HTML
	Class    string
	Tooltip  string
	Href     string
	Target   string
	Kind     string
	Dispatch string
	Inert    bool
	IsLink   bool
}

var buttonTemplate = template.Must(template.New("button").Parse(
	`{{if .IsLink}}<a class="btn {{.Class}}" href="{{.Href}}"` +
		`{{with .Target}} target="{{.}}"{{end}}` +
		`{{with .Tooltip}} title="{{.}}"{{end}}` +
		`{{if .Inert}} aria-disabled="true" tabindex="-1"{{end}}>{{.Label}}</a>` +
		`{{else}}<button type="button" class="btn {{.Class}}"` +
		`{{with .Tooltip}} title="{{.}}"{{end}}` +
		` data-mode="{{.Kind}}" data-target="{{.Dispatch}}"` +
		`{{if .Inert}} disabled{{end}}>{{.Label}}</button>{{end}}`,
))

func newButtonView(desc button.Descriptor, class string, loading bool) buttonView {
	v := buttonView{
		Label:    defuse.HTML(desc.Label),
		Class:    class,
		Tooltip:  defuse.Text(desc.Tooltip),
		Dispatch: desc.Target(),
		Inert:    desc.Disabled || loading,
		IsLink:   desc.IsLink(),
	}
	if desc.Mode != nil {
		v.Kind = string(desc.Mode.Kind())
	}
	if link, ok := desc.Mode.(button.LinkMode); ok {
		v.Href = link.Href
		v.Target = link.Target
	}
	return v
}

// ButtonHTML renders b as an anchor (link buttons) or a button element.
// The label is defused; disabled and loading buttons are inert.
func ButtonHTML(b *button.Button) (template.HTML, error) {
	desc := b.Descriptor()
	return renderButtonView(newButtonView(desc, b.StyleClass(), b.State().Loading))
}

// DescriptorHTML renders an idle button for desc.
func DescriptorHTML(desc button.Descriptor) (template.HTML, error) {
	return renderButtonView(newButtonView(desc, button.ClassFor(desc.Format, false), false))
}

func renderButtonView(v buttonView) (template.HTML, error) {
	var buf bytes.Buffer
	if err := buttonTemplate.Execute(&buf, v); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// pageView is the template data of the preview page.
type pageView struct {
	Title       string
	Description string
	Current     string
	Pages       []string
	Buttons     []template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<nav>{{range .Pages}}<a href="?page={{.}}"{{if eq . $.Current}} aria-current="page"{{end}}>{{.}}</a> {{end}}</nav>
<h1>{{.Title}}</h1>
{{with .Description}}<p>{{.}}</p>{{end}}
<div class="oxi-button-container">
{{range .Buttons}}{{.}}
{{end}}</div>
</body>
</html>
`))

// PreviewHandler serves a static HTML rendering of the pages in screens.
// The page is selected with the "page" query parameter.
func PreviewHandler(screens *config.Screens, callbacks config.Callbacks) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("page")
		if name == "" {
			name = screens.StartPage()
		}
		page, ok := screens.Pages[name]
		if !ok || page == nil {
			http.NotFound(w, r)
			return
		}

		descs, err := screens.Descriptors(name, callbacks)
		if err != nil {
			logging.Warn("Preview failed", zap.String("page", name), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		view := pageView{
			Title:       page.Title,
			Description: page.Description,
			Current:     name,
			Pages:       screens.PageNames(),
		}
		if view.Title == "" {
			view.Title = name
		}
		for _, d := range descs {
			if !d.Format.Known() {
				logging.LogUnknownFormat(d.Label, string(d.Format))
			}
			h, err := DescriptorHTML(d)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			view.Buttons = append(view.Buttons, h)
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
}
