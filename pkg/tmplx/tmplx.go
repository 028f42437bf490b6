// Package tmplx wraps html/template with a set of helper funcs and page sets
// that share one layout.
package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var (
	ErrRenderTemplate  = errors.New("tmplx: render error")
	ErrParseTemplate   = errors.New("tmplx: parse error")
	ErrUnknownTemplate = errors.New("tmplx: unknown template")
)

type Template struct {
	tmpl *template.Template
}

type Options struct {
	validate ValidateFunc
	testData any
	funcs    template.FuncMap
}

type Option func(*Options) error

type ValidateFunc func(*bytes.Buffer) error

// defaultFuncs returns the default template functions
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"quote":          quoteFunc,
		"default":        defaultFunc,
		"json":           jsonFunc,
		"hasSuffix":      hasSuffix,
		"hasPrefix":      hasPrefix,
		"regexMatch":     regexMatch,
		"jsonGet":        jsonGet,
		"encodeUrlQuery": encodeUrlQuery,
		"truncate":       truncate,
	}
}

// WithTemplateFunc adds a single custom template function
func WithTemplateFunc(name string, fn any) Option {
	return func(t *Options) error {
		if fn == nil {
			return fmt.Errorf("template func %q is nil", name)
		}
		t.funcs[name] = fn
		return nil
	}
}

// WithValidate adds validation using test data
func WithValidate(testData any, validateFn ValidateFunc) Option {
	return func(t *Options) error {
		t.validate = validateFn
		t.testData = testData
		return nil
	}
}

func newOptions(args []Option) (*Options, error) {
	opts := &Options{
		funcs: defaultFuncs(),
	}
	for _, arg := range args {
		if err := arg(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func MustParse(name string, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse creates a new Template with the given name and text, applying any options
func Parse(name string, text string, args ...Option) (*Template, error) {
	opts, err := newOptions(args)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(opts.funcs).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	t := &Template{
		tmpl: tmpl,
	}
	if opts.validate != nil {
		if err := t.validate(opts.testData, opts.validate); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Template) validate(data any, validate ValidateFunc) error {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	if err := validate(buf); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}
	return nil
}

func (t *Template) Render(data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	return buf, nil
}

// Set holds one template per page. Every page is parsed on top of its own
// copy of the layout, so pages can redefine the blocks the layout declares.
type Set struct {
	pages map[string]*Template
}

// ParseFS parses the layout file, then each file matching pattern as a page
// named after its base name without extension.
func ParseFS(fsys fs.FS, layout, pattern string, args ...Option) (*Set, error) {
	opts, err := newOptions(args)
	if err != nil {
		return nil, err
	}

	base, err := template.New(path.Base(layout)).
		Option("missingkey=zero").
		Funcs(opts.funcs).
		ParseFS(fsys, layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	set := &Set{pages: make(map[string]*Template, len(files))}
	for _, file := range files {
		if file == layout {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
		}
		page, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseTemplate, file, err)
		}
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		// executing the page means executing the layout it was parsed into
		set.pages[name] = &Template{tmpl: page.Lookup(path.Base(layout))}
	}
	return set, nil
}

func MustParseFS(fsys fs.FS, layout, pattern string, opts ...Option) *Set {
	set, err := ParseFS(fsys, layout, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return set
}

func (s *Set) Has(name string) bool {
	_, ok := s.pages[name]
	return ok
}

func (s *Set) Render(name string, data any) (*bytes.Buffer, error) {
	t, ok := s.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return t.Render(data)
}

func hasSuffix(a, b any) bool {
	s1 := cast.ToString(a)
	s2 := cast.ToString(b)
	return strings.HasSuffix(s1, s2)
}

func hasPrefix(a, b any) bool {
	s1 := cast.ToString(a)
	s2 := cast.ToString(b)
	return strings.HasPrefix(s1, s2)
}

func quoteFunc(s string) (string, error) {
	return jsonFunc(s)
}

func defaultFunc(def any, value any) any {
	if value != nil && value != "" {
		return value
	}
	return def
}

func jsonFunc(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func regexMatch(in string, expr string) (bool, error) {
	r, err := regexp.Compile(expr)
	if err != nil {
		return false, err
	}
	return r.MatchString(in), nil
}

func jsonGet(path string, raw string) string {
	return gjson.Get(raw, path).String()
}

func encodeUrlQuery(queries ...any) string {
	query := url.Values{}
	for i := 0; i < len(queries); i += 2 {
		value := ""
		if i+1 < len(queries) {
			value = cast.ToString(queries[i+1])
		}
		query.Add(cast.ToString(queries[i]), value)
	}
	return query.Encode()
}

// truncate cuts s to n runes and appends an ellipsis when it was cut.
func truncate(n any, s any) string {
	limit := cast.ToInt(n)
	r := []rune(cast.ToString(s))
	if limit <= 0 || len(r) <= limit {
		return string(r)
	}
	return strings.TrimSpace(string(r[:limit])) + "…"
}
