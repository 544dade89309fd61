package processing

import (
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	log "github.com/sirupsen/logrus"
)

// TemplateExtension Suffix of template files inside the template directory
const TemplateExtension = ".tmpl"

// Renderer renders a loaded template with a set of variables
type Renderer interface {
	Render(w io.Writer, vars map[string]interface{}) error
}

// Template A parsed template file
type Template struct {
	name string
	tpl  *template.Template
}

// LoadTemplate Parse the template called name from dir
//
// Arguments:
//
// - dir  string The template directory
// - name string The template name without extension
//
// Return:
//
// - *Template The parsed template
// - error     Any error reading or parsing the file
func LoadTemplate(dir, name string) (*Template, error) {
	var (
		filename string = filepath.Join(dir, name+TemplateExtension)
		base     string = filepath.Base(filename)
	)
	log.Infof("Loading template %s", filename)
	tpl, err := template.New(base).Funcs(sprig.TxtFuncMap()).ParseFiles(filename)
	if err != nil {
		return nil, fmt.Errorf("loading template %q: %w", name, err)
	}
	return &Template{name: name, tpl: tpl}, nil
}

// Name of the template
func (t *Template) Name() string {
	return t.name
}

// Render executes the template into w
func (t *Template) Render(w io.Writer, vars map[string]interface{}) error {
	if err := t.tpl.Execute(w, vars); err != nil {
		return fmt.Errorf("rendering template %q: %w", t.name, err)
	}
	return nil
}
