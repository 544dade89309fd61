package processing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	exif "github.com/barasher/go-exiftool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	c "github.com/mproffitt/dembed/pkg/config"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func loadTemplate(t *testing.T, body string) *Template {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main"+TemplateExtension), []byte(body), 0o644))
	tpl, err := LoadTemplate(dir, "main")
	require.NoError(t, err)
	return tpl
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))
	return path
}

type failingRenderer struct{}

func (failingRenderer) Render(io.Writer, map[string]interface{}) error {
	return errors.New("boom")
}

func TestCompanionPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/pics/photo.jpg", "/pics/photo.html"},
		{"/pics/archive.tar.png", "/pics/archive.tar.html"},
		{"photo.jpeg", "photo.html"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CompanionPath(tt.in))
		})
	}
}

func TestProcessWritesCompanion(t *testing.T) {
	tpl := loadTemplate(t, `<meta content="{{ .title }}"><img src="{{ .file_name }}">`)
	p, err := NewProcessor(tpl, map[string]interface{}{"title": "gallery"}, &c.Config{})
	require.NoError(t, err)
	img := writeImage(t, "photo.jpg")

	dest, err := p.Process(img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(img), "photo.html"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `<meta content="gallery"><img src="photo.jpg">`, string(data))
}

func TestProcessOverwritesExisting(t *testing.T) {
	tpl := loadTemplate(t, `new`)
	p, err := NewProcessor(tpl, nil, &c.Config{})
	require.NoError(t, err)
	img := writeImage(t, "photo.png")
	require.NoError(t, os.WriteFile(CompanionPath(img), []byte("a much longer old body"), 0o644))

	dest, err := p.Process(img)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestProcessRenderErrorKeepsExisting(t *testing.T) {
	p, err := NewProcessor(failingRenderer{}, nil, &c.Config{})
	require.NoError(t, err)
	img := writeImage(t, "photo.png")
	require.NoError(t, os.WriteFile(CompanionPath(img), []byte("old"), 0o644))

	_, err = p.Process(img)
	require.EqualError(t, err, "boom")

	data, err := os.ReadFile(CompanionPath(img))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestProcessUnwritableDirectory(t *testing.T) {
	tpl := loadTemplate(t, `x`)
	p, err := NewProcessor(tpl, nil, &c.Config{})
	require.NoError(t, err)

	_, err = p.Process(filepath.Join(t.TempDir(), "missing", "photo.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing companion")
}

func TestProcessAppliesMode(t *testing.T) {
	tpl := loadTemplate(t, `x`)
	p, err := NewProcessor(tpl, nil, &c.Config{Mode: "go-rwx"})
	require.NoError(t, err)
	img := writeImage(t, "photo.png")

	dest, err := p.Process(img)
	require.NoError(t, err)

	fi, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestNewProcessorCopiesVariables(t *testing.T) {
	vars := map[string]interface{}{"title": "a"}
	p, err := NewProcessor(loadTemplate(t, `x`), vars, &c.Config{})
	require.NoError(t, err)

	vars["title"] = "b"
	assert.Equal(t, "a", p.Variables(writeImage(t, "x.png"))["title"])
}

func TestVariables(t *testing.T) {
	img := writeImage(t, "photo.png")

	t.Run("file_name always wins", func(t *testing.T) {
		p, err := NewProcessor(loadTemplate(t, `x`), map[string]interface{}{FileName: "spoof.png"}, &c.Config{})
		require.NoError(t, err)
		assert.Equal(t, "photo.png", p.Variables(img)[FileName])
	})

	t.Run("mime type detected", func(t *testing.T) {
		p, err := NewProcessor(loadTemplate(t, `x`), nil, &c.Config{})
		require.NoError(t, err)
		assert.Equal(t, "image/png", p.Variables(img)[MimeType])
	})

	t.Run("configured mime type kept", func(t *testing.T) {
		p, err := NewProcessor(loadTemplate(t, `x`), map[string]interface{}{MimeType: "image/custom"}, &c.Config{})
		require.NoError(t, err)
		assert.Equal(t, "image/custom", p.Variables(img)[MimeType])
	})

	t.Run("no size without exif", func(t *testing.T) {
		p, err := NewProcessor(loadTemplate(t, `x`), nil, &c.Config{})
		require.NoError(t, err)
		vars := p.Variables(img)
		assert.NotContains(t, vars, ImageWidth)
		assert.NotContains(t, vars, ImageHeight)
	})
}

func TestLoadTemplate(t *testing.T) {
	t.Run("sprig functions available", func(t *testing.T) {
		tpl := loadTemplate(t, `{{ .file_name | upper }}`)
		var sb strings.Builder
		require.NoError(t, tpl.Render(&sb, map[string]interface{}{FileName: "a.jpg"}))
		assert.Equal(t, "A.JPG", sb.String())
		assert.Equal(t, "main", tpl.Name())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTemplate(t.TempDir(), "main")
		require.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tmpl"), []byte(`{{ .x `), 0o644))
		_, err := LoadTemplate(dir, "main")
		require.Error(t, err)
	})
}

func TestDimensions(t *testing.T) {
	w, h, err := dimensions(exif.FileMetadata{Fields: map[string]interface{}{
		"ImageWidth":  float64(640),
		"ImageHeight": "480",
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(640), w)
	assert.Equal(t, int64(480), h)

	_, _, err = dimensions(exif.FileMetadata{Fields: map[string]interface{}{"ImageWidth": float64(1)}})
	assert.Error(t, err)
}
