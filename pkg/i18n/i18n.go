// Package i18n resolves UI strings from embedded locale bundles.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const fallbackLang = "en"

var (
	loadOnce sync.Once
	tables   map[string]map[string]string
)

// Locale resolves dotted keys ("app.title") for one language, falling back to
// English and then to the key itself.
type Locale struct {
	lang string
}

// Load returns the locale for a language code, or the English locale when the
// code is unknown.
func Load(lang string) *Locale {
	loadTables()
	if _, ok := tables[lang]; !ok {
		lang = fallbackLang
	}
	return &Locale{lang: lang}
}

// Lang returns the resolved language code.
func (l *Locale) Lang() string { return l.lang }

// T returns the translation for key.
func (l *Locale) T(key string) string {
	loadTables()
	if v, ok := tables[l.lang][key]; ok {
		return v
	}
	if v, ok := tables[fallbackLang][key]; ok {
		return v
	}
	return key
}

// Languages lists the available language codes, sorted.
func Languages() []string {
	loadTables()
	langs := make([]string, 0, len(tables))
	for lang := range tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func loadTables() {
	loadOnce.Do(func() {
		tables = make(map[string]map[string]string)
		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			panic(fmt.Sprintf("i18n: read locales: %v", err))
		}
		for _, e := range entries {
			name := e.Name()
			if !strings.HasSuffix(name, ".yaml") {
				continue
			}
			lang := strings.TrimSuffix(name, ".yaml")
			data, err := localeFS.ReadFile("locales/" + name)
			if err != nil {
				panic(fmt.Sprintf("i18n: read %s: %v", name, err))
			}
			var raw map[string]any
			if err := yaml.Unmarshal(data, &raw); err != nil {
				panic(fmt.Sprintf("i18n: parse %s: %v", name, err))
			}
			table := make(map[string]string)
			flatten("", raw, table)
			tables[lang] = table
		}
	})
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
}
