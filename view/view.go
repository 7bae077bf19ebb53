// Package view renders the embedded html templates with the shared layout,
// partials and helper funcs.
package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/immo-gestion/auth"
	"github.com/diewo77/immo-gestion/i18n"
)

//go:embed templates
var templateFS embed.FS

var (
	devMode  bool
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// permission resolvers are set by the host app so templates can check auth
	canProfileResolver func(*http.Request, string, string) bool
	isManagerResolver  func(*http.Request) bool
)

// SetDev disables the template cache.
func SetDev(dev bool) { devMode = dev }

// SetCanProfileResolver sets a callback used by templates to check profile-level permissions.
func SetCanProfileResolver(f func(*http.Request, string, string) bool) {
	if f != nil {
		canProfileResolver = f
	}
}

// SetIsManagerResolver sets a callback used by templates to detect managers.
func SetIsManagerResolver(f func(*http.Request) bool) {
	if f != nil {
		isManagerResolver = f
	}
}

// Funcs returns the func map bound to r. A nil request yields the French
// defaults, which is what templates are parsed with.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.Default
	if r != nil {
		lang = i18n.LangFromContext(r.Context())
	}
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"tp":   func(prefix string, code any) string { return i18n.T(lang, prefix+fmt.Sprint(code)) },
		"lang": func() string { return lang },
		// can checks profile-level permission (resource, action) -> bool
		"can": func(resource, action string) bool {
			if r == nil || canProfileResolver == nil {
				return false
			}
			return canProfileResolver(r, resource, action)
		},
		"isManager": func() bool {
			if r == nil || isManagerResolver == nil {
				return false
			}
			return isManagerResolver(r)
		},
		"add": func(a, b any) float64 {
			fa, _ := toFloat64(a)
			fb, _ := toFloat64(b)
			return fa + fb
		},
		"year":     func() int { return time.Now().Year() },
		"money":    Money,
		"num":      Number,
		"pct":      func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + " %" },
		"date":     func(t time.Time) string { return formatTime(t, "02/01/2006") },
		"datetime": func(t time.Time) string { return formatTime(t, "02/01/2006 15:04") },
		"today":    func() string { return time.Now().Format("2006-01-02") },
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// Number prints integers as is and other floats with two decimals.
func Number(v any) string {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) {
			return strconv.FormatFloat(n, 'f', 0, 64)
		}
		return strconv.FormatFloat(n, 'f', 2, 64)
	case float32:
		return Number(float64(n))
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// Money formats an amount in euros with space-grouped thousands, e.g.
// "250 000 €" or "1 234,50 €".
func Money(v any) string {
	f, ok := toFloat64(v)
	if !ok {
		return ""
	}
	neg := f < 0
	f = math.Abs(f)
	whole := math.Floor(f)
	cents := int64(math.Round((f - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	if cents > 0 {
		b.WriteString("," + strconv.FormatInt(100+cents, 10)[1:])
	}
	b.WriteString(" €")
	return b.String()
}

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

func parse(name string) (*template.Template, error) {
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
		"templates/"+name,
	)
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes the page name inside the layout. Output is buffered so a
// template error never leaves a half-written page.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := parse(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))

	// Ensure data map exists and inject common defaults to avoid template errors.
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Error renders the error page with a translated title code.
func Error(w http.ResponseWriter, r *http.Request, status int, code string) {
	if err := RenderStatus(w, r, status, "error.html", map[string]any{"Code": code, "Status": status}); err != nil {
		http.Error(w, http.StatusText(status), status)
	}
}
