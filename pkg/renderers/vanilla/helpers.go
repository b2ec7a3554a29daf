package vanilla

import (
	"math"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-stepform/pkg/session"
)

var (
	policyOnce   sync.Once
	markupPolicy *bluemonday.Policy
	textPolicy   *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		markupPolicy = bluemonday.NewPolicy()
		markupPolicy.AllowElements("b", "strong", "em", "i", "small", "span", "br")
		textPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy, textPolicy
}

// headingMarkup keeps inline formatting in a configured heading and drops
// everything else. The result is emitted with the |safe filter.
func headingMarkup(value string) string {
	markup, _ := policies()
	return markup.Sanitize(strings.TrimSpace(value))
}

// headingText strips all markup for contexts that only take text, such as
// the document title. The result is entity-escaped.
func headingText(value string) string {
	_, text := policies()
	return strings.TrimSpace(text.Sanitize(value))
}

// summaryEntries passes values through untouched; the template autoescapes
// them so the summary shows exactly what was entered.
func summaryEntries(entries []session.Entry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		out = append(out, map[string]any{
			"field": entry.Field,
			"label": entry.Label,
			"value": entry.Value,
		})
	}
	return out
}

func percent(progress float64) int {
	return int(math.Round(min(max(progress, 0), 100)))
}

type themeContext struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"css_vars_style,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	return themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

// stylesheetURL resolves the bundled stylesheet through the theme asset
// resolver. An empty result means the stylesheet is inlined.
func stylesheetURL(cfg *theme.RendererConfig) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return strings.TrimSpace(cfg.AssetURL(StylesheetName))
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.NewReplacer(";", "", "}", "", "<", "").Replace(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
