package domain

// ToolDefinition describes a single tool the generation service may use.
// Name is the whitelist key matched against the first token of a generated
// command. Instruction is opaque text forwarded to the service.
type ToolDefinition struct {
	Name        string `json:"name" yaml:"name"`
	Instruction string `json:"instruction" yaml:"instruction"`
	// ForceExplain, when set to true, makes every invocation of this tool
	// print an explanation and ask for confirmation. Nil means unset.
	ForceExplain *bool `json:"forceExplain,omitempty" yaml:"forceExplain,omitempty"`
}

// Catalog is a set of tool definitions plus an optional meta prompt,
// loaded from the global config or from a per-call prompt file.
type Catalog struct {
	MetaPrompt string           `json:"metaPrompt,omitempty" yaml:"metaPrompt,omitempty"`
	Tools      []ToolDefinition `json:"tools" yaml:"tools"`
}

// Whitelist returns the tool names permitted as the first token of a
// generated command. Immutable for the duration of one invocation.
func (c Catalog) Whitelist() []string {
	names := make([]string, 0, len(c.Tools))
	for _, t := range c.Tools {
		names = append(names, t.Name)
	}
	return names
}

// Lookup returns the definition for name, or nil if the catalog does not
// contain it.
func (c Catalog) Lookup(name string) *ToolDefinition {
	for i := range c.Tools {
		if c.Tools[i].Name == name {
			return &c.Tools[i]
		}
	}
	return nil
}
