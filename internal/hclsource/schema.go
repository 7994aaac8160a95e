package hclsource

import "github.com/zclconf/go-cty/cty"

// fileSchema is the top-level structure of a tool definition file.
type fileSchema struct {
	Acceptors []*acceptorBlock `hcl:"acceptor,block"`
	Tools     []*toolBlock     `hcl:"tool,block"`
	Aliases   []*aliasBlock    `hcl:"alias,block"`
}

// toolBlock declares one tool; nested tool blocks declare subtools.
type toolBlock struct {
	Name           string       `hcl:"name,label"`
	Desc           string       `hcl:"desc,optional"`
	LongDesc       string       `hcl:"long_desc,optional"`
	DisableParsing bool         `hcl:"disable_argument_parsing,optional"`
	Exec           []string     `hcl:"exec,optional"`
	Flags          []*flagBlock `hcl:"flag,block"`
	Args           []*argBlock  `hcl:"arg,block"`
	Tools          []*toolBlock `hcl:"tool,block"`
}

type flagBlock struct {
	Key      string    `hcl:"key,label"`
	Switches []string  `hcl:"switches,optional"`
	Desc     string    `hcl:"desc,optional"`
	Default  cty.Value `hcl:"default,optional"`
	Acceptor string    `hcl:"acceptor,optional"`
}

type argBlock struct {
	Name      string    `hcl:"name,label"`
	Required  bool      `hcl:"required,optional"`
	Remaining bool      `hcl:"remaining,optional"`
	Desc      string    `hcl:"desc,optional"`
	Default   cty.Value `hcl:"default,optional"`
	Acceptor  string    `hcl:"acceptor,optional"`
}

// aliasBlock redirects one tool name to another. The target is a dotted or
// space-separated tool path relative to the source's coverage scope.
type aliasBlock struct {
	Name   string `hcl:"name,label"`
	Target string `hcl:"target"`
}

// acceptorBlock declares a named acceptor scoped to the source's coverage.
// Exactly one of pattern or values must be given.
type acceptorBlock struct {
	Name    string   `hcl:"name,label"`
	Pattern string   `hcl:"pattern,optional"`
	Values  []string `hcl:"values,optional"`
}
