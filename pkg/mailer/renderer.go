package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Renderer converts markdown templates with YAML frontmatter into HTML
// wrapped in a layout. Parsed templates and layouts are cached; rendered
// output is not.
type Renderer struct {
	fsys      fs.FS
	md        goldmark.Markdown
	templates map[string]*parsedTemplate
	layouts   map[string]*htmltemplate.Template
	layoutDir string
	mu        sync.RWMutex
}

type parsedTemplate struct {
	metadata map[string]any
	tmpl     *texttemplate.Template
}

// NewRenderer creates a renderer over the given filesystem. Layouts are
// looked up under layoutDir; templates are addressed by their full path.
func NewRenderer(fsys fs.FS, layoutDir string) *Renderer {
	if layoutDir == "" {
		layoutDir = "layouts"
	}
	return &Renderer{
		fsys:      fsys,
		md:        goldmark.New(),
		templates: make(map[string]*parsedTemplate),
		layouts:   make(map[string]*htmltemplate.Template),
		layoutDir: layoutDir,
	}
}

// RenderResult holds the rendered HTML, the plain-text alternative, and
// the template's frontmatter metadata.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string
}

// Render executes a markdown template with data, converts it to HTML,
// and wraps it in the named layout. The processed markdown (before HTML
// conversion) becomes the plain-text alternative.
func (r *Renderer) Render(layout, name string, data any) (*RenderResult, error) {
	parsed, err := r.template(name)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := parsed.tmpl.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, name, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: convert %s: %v", ErrRenderFailed, name, err)
	}

	layoutTmpl, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	err = layoutTmpl.Execute(&html, map[string]any{
		"Content":  htmltemplate.HTML(body.String()),
		"Metadata": parsed.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: parsed.metadata,
		HTML:     html.String(),
		Text:     markdown.String(),
	}, nil
}

func (r *Renderer) template(name string) (*parsedTemplate, error) {
	r.mu.RLock()
	cached, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.templates[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	tmpl, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}

	pt := &parsedTemplate{metadata: parsed.Metadata, tmpl: tmpl}
	r.templates[name] = pt
	return pt, nil
}

func (r *Renderer) layout(name string) (*htmltemplate.Template, error) {
	r.mu.RLock()
	cached, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.layouts[name]; ok {
		return cached, nil
	}

	p := path.Join(r.layoutDir, name)
	content, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, p, err)
	}

	tmpl, err := htmltemplate.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, p, err)
	}

	r.layouts[name] = tmpl
	return tmpl, nil
}
