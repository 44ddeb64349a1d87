package views

// Table is the generic list page used by the resource screens.
type Table struct {
	Heading string
	Columns []string
	Rows    []Row
	Empty   string
	Forms   []Form
}

type Row struct {
	Cells   []string
	Actions []Action
}

// Action is a one-button form posted for a row.
type Action struct {
	Label   string
	Path    string
	Confirm string
	Danger  bool
	Fields  []Field
}

type Form struct {
	Heading string
	Path    string
	Method  string
	Submit  string
	Fields  []Field
}

type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Options  []Option
	Required bool
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}
