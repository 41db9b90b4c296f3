package forms

// FieldKind names the kind of input a field renders as.
type FieldKind string

const (
	CharField     FieldKind = "CharField"
	TextField     FieldKind = "TextField"
	ChoiceField   FieldKind = "ChoiceField"
	EmailField    FieldKind = "EmailField"
	PasswordField FieldKind = "PasswordField"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Field is the render-ready description of one form input.
type Field struct {
	Name     string
	Label    string
	HelpText string
	Kind     FieldKind
	Required bool
	Value    string
	Choices  []Choice
	Errors   []string
}

// errorList collects messages per field name; the empty name holds
// form-wide errors.
type errorList map[string][]string

func (e errorList) add(field, message string) {
	e[field] = append(e[field], message)
}

func (e errorList) Has(field string) bool {
	return len(e[field]) > 0
}

func findField(fields []Field, name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
