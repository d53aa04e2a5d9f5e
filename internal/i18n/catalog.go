// Package i18n loads the translation catalogs used by the questionnaire and
// picks the best one for a request's Accept-Language header.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Translator is a pure key lookup. Unknown keys come back unchanged.
type Translator interface {
	Translate(key string) string
}

// Catalog holds one flattened dictionary per language.
type Catalog struct {
	tags     []language.Tag
	dicts    []map[string]string
	matcher  language.Matcher
	fallback int
}

// Default loads the catalogs embedded in the binary.
func Default(fallback string) (*Catalog, error) {
	return Load(embedded, "locales", fallback)
}

// Load reads every <lang>.yaml file in dir. fallback names the language used
// for keys missing from the matched catalog.
func Load(fsys fs.FS, dir, fallback string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	c := &Catalog{fallback: -1}
	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback language %q: %w", fallback, err)
	}

	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		tag, err := language.Parse(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", e.Name(), err)
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var tree map[string]interface{}
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		dict := make(map[string]string)
		flatten("", tree, dict)

		if tag == fallbackTag {
			c.fallback = len(c.tags)
		}
		c.tags = append(c.tags, tag)
		c.dicts = append(c.dicts, dict)
	}
	if len(c.tags) == 0 {
		return nil, fmt.Errorf("no locale files in %s", dir)
	}
	if c.fallback < 0 {
		return nil, fmt.Errorf("fallback language %q has no catalog", fallback)
	}

	// the matcher returns tags[0] when nothing matches, so the fallback goes first
	ordered := append([]language.Tag{c.tags[c.fallback]}, c.tags...)
	c.matcher = language.NewMatcher(ordered)
	return c, nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Languages lists the loaded catalogs.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// For returns the translator that best matches an Accept-Language header value
// or a plain language code.
func (c *Catalog) For(acceptLanguage string) Translator {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.printer(c.fallback)
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.printer(c.fallback)
	}
	// index 0 is the fallback copy placed in front
	if idx == 0 {
		return c.printer(c.fallback)
	}
	return c.printer(idx - 1)
}

func (c *Catalog) printer(i int) *Printer {
	return &Printer{
		lang:     c.tags[i],
		dict:     c.dicts[i],
		fallback: c.dicts[c.fallback],
	}
}

// Printer translates keys for one language.
type Printer struct {
	lang     language.Tag
	dict     map[string]string
	fallback map[string]string
}

func (p *Printer) Language() string {
	return p.lang.String()
}

func (p *Printer) Translate(key string) string {
	if v, ok := p.dict[key]; ok {
		return v
	}
	if v, ok := p.fallback[key]; ok {
		return v
	}
	return key
}
