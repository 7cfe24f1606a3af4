package vanilla

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fb-" + strings.Join(strings.Fields(trimmed), "-")
}

// sanitizeClassList drops the reserved fb- prefix so host classes cannot
// collide with the built-in chrome.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "fb-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// optionLabel annotates an option with its surcharge: "Pro (+20.00€)" for
// fixed prices and "Priority (+10%)" for percentages.
func optionLabel(option render.OptionPlan, currency string) string {
	if option.Price == 0 {
		return option.Value
	}
	if option.PriceType == model.PriceTypePercentage {
		return option.Value + " (+" + strconv.FormatFloat(option.Price, 'f', -1, 64) + "%)"
	}
	return option.Value + " (+" + strconv.FormatFloat(option.Price, 'f', 2, 64) + currency + ")"
}

func controlKind(t model.FieldType) string {
	switch t {
	case model.FieldTypeSelect:
		return "select"
	case model.FieldTypeTextarea:
		return "textarea"
	default:
		return "input"
	}
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// styleVars renders CSS custom properties in a stable order.
func styleVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		if strings.HasPrefix(name, "--") && !strings.ContainsAny(name+vars[name], ";{}<>\"") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+vars[name])
	}
	return strings.Join(parts, "; ")
}
