package seed

// File is the root structure of the glossary seed yaml
type File struct {
	Groups        []GroupEntry        `yaml:"groups"`
	Abbreviations []AbbreviationEntry `yaml:"abbreviations"`
	Exceptions    []ExceptionEntry    `yaml:"exceptions"`
}

// GroupEntry declares a group by name
type GroupEntry struct {
	Name     string `yaml:"name"`
	Comment  string `yaml:"comment,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// AbbreviationEntry declares one name with one or more expansions.
// Description and Descriptions may both be set; they are merged.
type AbbreviationEntry struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	Descriptions []string `yaml:"descriptions,omitempty"`
	Comment      string   `yaml:"comment,omitempty"`
	Disabled     bool     `yaml:"disabled,omitempty"`
	Groups       []string `yaml:"groups,omitempty"` // group names
}

// ExceptionEntry declares a "not an abbreviation" term
type ExceptionEntry struct {
	Name     string   `yaml:"name"`
	Comment  string   `yaml:"comment,omitempty"`
	Disabled bool     `yaml:"disabled,omitempty"`
	Groups   []string `yaml:"groups,omitempty"`
}

func (e AbbreviationEntry) allDescriptions() []string {
	out := make([]string, 0, len(e.Descriptions)+1)
	if e.Description != "" {
		out = append(out, e.Description)
	}
	return append(out, e.Descriptions...)
}
