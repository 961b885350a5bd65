package builtins

// descriptor is the YAML shape a dialect's catalog is decoded from: the
// "externally-provided protocol-buffer-like descriptor" spec.md §4.5
// describes, standing in for a real IDL-generated format with
// gopkg.in/yaml.v3 (already a teacher dependency) since the core treats
// the decoded struct as opaque either way — only the wire format
// differs from what the original analyzer loads its catalog from.
type descriptor struct {
	Dialect         string                 `yaml:"dialect"`
	Types           []typeDescriptor       `yaml:"types"`
	Functions       []funcDescriptor       `yaml:"functions"`
	Variables       []varDescriptor        `yaml:"variables"`
	CustomTypes     []typeDescriptor       `yaml:"custom_types"`
	CustomFunctions []customFuncDescriptor `yaml:"custom_functions"`
	// CommonFields is folded into every type's Fields() result, a
	// direct simplification of the original analyzer's separate
	// CommonAttributes accumulated-query (SPEC_FULL.md supplemented
	// feature 3): e.g. to_json/to_proto showing up on most built-in
	// classes.
	CommonFields []fieldDescriptor `yaml:"common_fields"`
}

// typeDescriptor describes one BuiltinType/CustomType: a name, a
// docstring, how many BoundVars its fields close over (Base names the
// built-in base class this is, if any: "list" → 1 var, "dict" → 2 vars,
// "string"/"bytes" → 0 but still get CommonFields), and its fields.
type typeDescriptor struct {
	Name   string           `yaml:"name"`
	Doc    string           `yaml:"doc"`
	Base   string           `yaml:"base"`
	Fields []fieldDescriptor `yaml:"fields"`
}

type fieldDescriptor struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Doc  string `yaml:"doc"`
}

type funcDescriptor struct {
	ID      string            `yaml:"id"`
	Doc     string            `yaml:"doc"`
	NumVars int               `yaml:"num_vars"`
	Params  []paramDescriptor `yaml:"params"`
	Ret     string            `yaml:"ret"`
}

type paramDescriptor struct {
	Kind     string `yaml:"kind"` // positional | keyword | vararg_list | vararg_dict
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

type varDescriptor struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Doc  string `yaml:"doc"`
}

// customFuncDescriptor describes a CustomFunction: unlike a built-in
// function its return type is itself a TypeRef resolved against the
// same catalog (spec.md §4.5), not a type-ref-DSL string closed over
// BoundVars, since custom functions carry no generics in this grammar.
type customFuncDescriptor struct {
	ID     string `yaml:"id"`
	Doc    string `yaml:"doc"`
	RetRef string `yaml:"ret_ref"`
}
