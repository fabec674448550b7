package cmd

import "fmt"

// passthrough holds the agent flags ccrun forwards without interpreting.
type passthrough struct {
	PermissionMode     string
	AllowedTools       string
	OutputFormat       string // headless only
	JSONSchema         string // headless only
	AppendSystemPrompt string
	SystemPrompt       string
	Continue           bool
	Resume             string
	Extra              []string
}

var outputFormats = []string{"text", "json", "stream-json"}

func (p passthrough) validate() error {
	if p.OutputFormat == "" {
		return nil
	}
	for _, f := range outputFormats {
		if p.OutputFormat == f {
			return nil
		}
	}
	return fmt.Errorf("invalid --output-format %q: must be one of text, json, stream-json", p.OutputFormat)
}

// headlessArgv builds the one-shot command line. The prompt goes in via
// -p; a nil prompt omits the flag.
func headlessArgv(bin string, prompt *string, p passthrough) []string {
	argv := []string{bin}
	if p.PermissionMode != "" {
		argv = append(argv, "--permission-mode", p.PermissionMode)
	}
	if prompt != nil {
		argv = append(argv, "-p", *prompt)
	}
	if p.AllowedTools != "" {
		argv = append(argv, "--allowedTools", p.AllowedTools)
	}
	if p.OutputFormat != "" {
		argv = append(argv, "--output-format", p.OutputFormat)
	}
	if p.JSONSchema != "" {
		argv = append(argv, "--json-schema", p.JSONSchema)
	}
	return append(argv, p.common()...)
}

// interactiveArgv builds the REPL launch line. The prompt is typed
// later, and output format / schema only apply to print mode.
func interactiveArgv(bin string, p passthrough) []string {
	argv := []string{bin}
	if p.PermissionMode != "" {
		argv = append(argv, "--permission-mode", p.PermissionMode)
	}
	if p.AllowedTools != "" {
		argv = append(argv, "--allowedTools", p.AllowedTools)
	}
	return append(argv, p.common()...)
}

func (p passthrough) common() []string {
	var argv []string
	if p.AppendSystemPrompt != "" {
		argv = append(argv, "--append-system-prompt", p.AppendSystemPrompt)
	}
	if p.SystemPrompt != "" {
		argv = append(argv, "--system-prompt", p.SystemPrompt)
	}
	if p.Continue {
		argv = append(argv, "--continue")
	}
	if p.Resume != "" {
		argv = append(argv, "--resume", p.Resume)
	}
	return append(argv, p.Extra...)
}
