package vanilla

import (
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/summary"
)

type formView struct {
	Available  bool                 `json:"available"`
	Action     string               `json:"action"`
	Method     string               `json:"method"`
	Mode       string               `json:"mode"`
	Hidden     []render.HiddenField `json:"hidden"`
	FormErrors []string             `json:"formErrors"`
	Sections   []sectionView        `json:"sections"`
	Price      priceView            `json:"price"`
	Classes    Classes              `json:"classes"`
	Theme      themeView            `json:"theme"`
}

type sectionView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Span        string      `json:"span"`
	IsPadding   bool        `json:"isPadding"`
	Collapsible bool        `json:"collapsible"`
	Expanded    bool        `json:"expanded"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Control     string       `json:"control"`
	InputType   string       `json:"inputType"`
	Placeholder string       `json:"placeholder"`
	Description string       `json:"description"`
	Required    bool         `json:"required"`
	ReadOnly    bool         `json:"readonly"`
	Disabled    bool         `json:"disabled"`
	Value       string       `json:"value"`
	Error       string       `json:"error"`
	MinLength   string       `json:"minLength"`
	MaxLength   string       `json:"maxLength"`
	Min         string       `json:"min"`
	Max         string       `json:"max"`
	Step        string       `json:"step"`
	Pattern     string       `json:"pattern"`
	Rows        string       `json:"rows"`
	Cols        string       `json:"cols"`
	Options     []optionView `json:"options"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type priceView struct {
	Show       bool   `json:"show"`
	Base       string `json:"base"`
	Additional string `json:"additional"`
	Total      string `json:"total"`
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
	InlineCSS  string `json:"inlineCss"`
}

type summaryView struct {
	Empty   bool           `json:"empty"`
	Lines   []summary.Line `json:"lines"`
	Classes Classes        `json:"classes"`
	Theme   themeView      `json:"theme"`
}

func buildFormView(plan render.Plan, opts render.RenderOptions, cfg config) formView {
	method := opts.Method
	if method == "" {
		method = "POST"
	}
	currency := opts.CurrencyOrDefault()

	hidden := opts.Hidden
	if plan.SessionID != "" {
		hidden = append([]render.HiddenField{render.SessionField(plan.SessionID)}, hidden...)
	}

	view := formView{
		Available:  plan.Available,
		Action:     opts.Action,
		Method:     method,
		Mode:       string(plan.Mode),
		Hidden:     render.SortedHiddenFields(hidden...),
		FormErrors: opts.FormErrors,
		Classes:    cfg.classes.merged(),
		Theme:      buildThemeView(opts, cfg),
		Price: priceView{
			Show:       plan.Price.Additional != 0 || plan.Price.BasePrice != 0,
			Base:       money(plan.Price.BasePrice, currency),
			Additional: money(plan.Price.Additional, currency),
			Total:      money(plan.Price.Total, currency),
		},
	}

	for _, section := range plan.Sections {
		sv := sectionView{
			ID:          section.ID,
			Name:        section.Name,
			Span:        strconv.Itoa(section.Columns),
			IsPadding:   section.IsPadding,
			Collapsible: section.Collapsible,
			Expanded:    section.Expanded,
		}
		for _, field := range section.Fields {
			sv.Fields = append(sv.Fields, buildFieldView(field, opts, currency, cfg.sanitizer))
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func buildFieldView(field render.FieldPlan, opts render.RenderOptions, currency string, policy *bluemonday.Policy) fieldView {
	msg := field.Error
	if msg == "" {
		msg = opts.FieldErrors[field.Name]
	}
	out := fieldView{
		ID:          controlID(field.Name),
		Name:        field.Name,
		Label:       field.Label,
		Control:     controlKind(field.Type),
		InputType:   field.InputType,
		Placeholder: field.Placeholder,
		Description: sanitizeDescription(policy, field.Description),
		Required:    field.Required,
		ReadOnly:    field.ReadOnly,
		Disabled:    field.Disabled,
		Value:       field.Text,
		Error:       msg,
		MinLength:   intString(field.MinLength),
		MaxLength:   intString(field.MaxLength),
		Min:         field.Min,
		Max:         field.Max,
		Step:        field.Step,
		Pattern:     field.Pattern,
	}
	if field.Rows > 0 {
		out.Rows = strconv.Itoa(field.Rows)
	}
	if field.Cols > 0 {
		out.Cols = strconv.Itoa(field.Cols)
	}
	for _, option := range field.Options {
		out.Options = append(out.Options, optionView{
			Value:    option.Value,
			Label:    optionLabel(option, currency),
			Selected: option.Selected,
		})
	}
	return out
}

func buildThemeView(opts render.RenderOptions, cfg config) themeView {
	view := themeView{}
	if !cfg.omitStylesheet {
		view.InlineCSS = cfg.stylesheet
	}
	if opts.Theme == nil {
		return view
	}
	view.Name = opts.Theme.Theme
	view.Variant = opts.Theme.Variant
	view.Style = styleVars(opts.Theme.CSSVars)
	if opts.Theme.AssetURL != nil {
		if href := opts.Theme.AssetURL("stylesheet"); href != "" {
			view.Stylesheet = href
			view.InlineCSS = ""
		}
	}
	return view
}

func money(amount float64, currency string) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + currency
}
