package vanilla

// ChromeClass is a typed identifier for the CSS classes the templates emit.
type ChromeClass string

const (
	ClassForm     ChromeClass = "stepform-form"
	ClassHeader   ChromeClass = "stepform-header"
	ClassProgress ChromeClass = "stepform-progress"
	ClassField    ChromeClass = "stepform-field"
	ClassHelp     ChromeClass = "help"
	ClassActions  ChromeClass = "stepform-actions"
	ClassSummary  ChromeClass = "stepform-summary"
	// ClassDanger marks an input and its help text while the field has errors.
	ClassDanger ChromeClass = "is-danger"
)

func classMap() map[string]string {
	return map[string]string{
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"progress": string(ClassProgress),
		"field":    string(ClassField),
		"help":     string(ClassHelp),
		"actions":  string(ClassActions),
		"summary":  string(ClassSummary),
		"danger":   string(ClassDanger),
	}
}
