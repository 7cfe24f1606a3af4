package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm     ChromeClass = "fb-form"
	ClassSection  ChromeClass = "fb-section"
	ClassGrid     ChromeClass = "fb-grid"
	ClassField    ChromeClass = "fb-field"
	ClassErrors   ChromeClass = "fb-errors"
	ClassPrice    ChromeClass = "fb-price"
	ClassSummary  ChromeClass = "fb-summary"
	ClassNoConfig ChromeClass = "fb-empty"
)

// Classes lets hosts swap the chrome classes for their own design system.
// Empty entries keep the defaults.
type Classes struct {
	Form     string `json:"form"`
	Section  string `json:"section"`
	Grid     string `json:"grid"`
	Field    string `json:"field"`
	Errors   string `json:"errors"`
	Price    string `json:"price"`
	Summary  string `json:"summary"`
	NoConfig string `json:"noConfig"`
}

// DefaultClasses returns the built-in class names.
func DefaultClasses() Classes {
	return Classes{
		Form:     string(ClassForm),
		Section:  string(ClassSection),
		Grid:     string(ClassGrid),
		Field:    string(ClassField),
		Errors:   string(ClassErrors),
		Price:    string(ClassPrice),
		Summary:  string(ClassSummary),
		NoConfig: string(ClassNoConfig),
	}
}

func (c Classes) merged() Classes {
	out := DefaultClasses()
	pick := func(dst *string, value string) {
		if cleaned := sanitizeClassList(value); cleaned != "" {
			*dst = cleaned
		}
	}
	pick(&out.Form, c.Form)
	pick(&out.Section, c.Section)
	pick(&out.Grid, c.Grid)
	pick(&out.Field, c.Field)
	pick(&out.Errors, c.Errors)
	pick(&out.Price, c.Price)
	pick(&out.Summary, c.Summary)
	pick(&out.NoConfig, c.NoConfig)
	return out
}
