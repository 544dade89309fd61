package processing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	c "github.com/mproffitt/dembed/pkg/config"
	"github.com/mproffitt/dembed/pkg/mime"
	log "github.com/sirupsen/logrus"
	m "hg.sr.ht/~dchapes/mode"
)

// Variable names supplied alongside the configured template variables
const (
	FileName    = "file_name"
	MimeType    = "mime_type"
	ImageWidth  = "image_width"
	ImageHeight = "image_height"
)

// CompanionExtension Suffix of generated files
const CompanionExtension = ".html"

// Processor renders companion files for images
type Processor struct {
	renderer  Renderer
	variables map[string]interface{}
	mode      *m.Set
	exif      bool
}

// NewProcessor Create a processor rendering with renderer
//
// The variables map is copied. A non-empty cfg.Mode must parse as a
// symbolic or octal mode or an error is returned.
func NewProcessor(renderer Renderer, variables map[string]interface{}, cfg *c.Config) (p *Processor, err error) {
	p = &Processor{
		renderer:  renderer,
		variables: make(map[string]interface{}, len(variables)),
		exif:      cfg.Exif,
	}
	for k, v := range variables {
		p.variables[k] = v
	}

	if cfg.Mode != "" {
		var set m.Set
		if set, err = m.Parse(cfg.Mode); err != nil {
			return nil, fmt.Errorf("invalid mode %q: %w", cfg.Mode, err)
		}
		p.mode = &set
	}
	return
}

// CompanionPath The html file generated for path
func CompanionPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + CompanionExtension
}

// Process Render the companion file for path
//
// Arguments:
//
// - path string The image to generate a companion for
//
// Return:
//
// - string The location of the written companion file
// - error  Any error rendering, writing or changing the mode of the file
func (p *Processor) Process(path string) (dest string, err error) {
	var (
		buf  bytes.Buffer
		vars map[string]interface{} = p.preProcess(path)
	)
	dest = CompanionPath(path)

	if err = p.renderer.Render(&buf, vars); err != nil {
		return "", err
	}

	if err = os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing companion %s: %w", dest, err)
	}

	if err = p.postProcess(dest); err != nil {
		return "", err
	}
	return
}

// Variables The full variable set used to render the companion of path
func (p *Processor) Variables(path string) map[string]interface{} {
	return p.preProcess(path)
}

func (p *Processor) preProcess(path string) map[string]interface{} {
	var vars = make(map[string]interface{}, len(p.variables)+4)
	for k, v := range p.variables {
		vars[k] = v
	}

	details := mime.Detect(path)
	if details != nil {
		setDefault(vars, MimeType, details.Type)
	}

	if p.exif && details.IsImage() {
		if width, height, err := imageSize(path); err == nil {
			setDefault(vars, ImageWidth, width)
			setDefault(vars, ImageHeight, height)
		} else {
			log.Warnf("Unable to read image size for %s - %s", path, err.Error())
		}
	}

	// always supplied fresh, never taken from configuration
	vars[FileName] = filepath.Base(path)
	return vars
}

func (p *Processor) postProcess(dest string) (err error) {
	if p.mode == nil {
		return
	}
	if _, _, err = p.mode.Chmod(dest); err != nil {
		return fmt.Errorf("changing mode of %s: %w", dest, err)
	}
	return
}

func setDefault(vars map[string]interface{}, key string, value interface{}) {
	if _, ok := vars[key]; !ok {
		vars[key] = value
	}
}
