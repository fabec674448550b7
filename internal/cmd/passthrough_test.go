package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullPassthrough() passthrough {
	return passthrough{
		PermissionMode:     "plan",
		AllowedTools:       "Bash,Read",
		OutputFormat:       "json",
		JSONSchema:         `{"type":"object"}`,
		AppendSystemPrompt: "be brief",
		SystemPrompt:       "you are a linter",
		Continue:           true,
		Resume:             "abc123",
		Extra:              []string{"--model", "opus"},
	}
}

func TestHeadlessArgv_Order(t *testing.T) {
	p := "do it"
	assert.Equal(t, []string{
		"claude",
		"--permission-mode", "plan",
		"-p", "do it",
		"--allowedTools", "Bash,Read",
		"--output-format", "json",
		"--json-schema", `{"type":"object"}`,
		"--append-system-prompt", "be brief",
		"--system-prompt", "you are a linter",
		"--continue",
		"--resume", "abc123",
		"--model", "opus",
	}, headlessArgv("claude", &p, fullPassthrough()))
}

func TestHeadlessArgv_EmptyPromptStillPassed(t *testing.T) {
	empty := ""
	assert.Equal(t, []string{"claude", "-p", ""}, headlessArgv("claude", &empty, passthrough{}))
	assert.Equal(t, []string{"claude"}, headlessArgv("claude", nil, passthrough{}))
}

func TestInteractiveArgv_OmitsPrintModeFlags(t *testing.T) {
	assert.Equal(t, []string{
		"claude",
		"--permission-mode", "plan",
		"--allowedTools", "Bash,Read",
		"--append-system-prompt", "be brief",
		"--system-prompt", "you are a linter",
		"--continue",
		"--resume", "abc123",
		"--model", "opus",
	}, interactiveArgv("claude", fullPassthrough()))
}

func TestPassthrough_Validate(t *testing.T) {
	for _, f := range []string{"", "text", "json", "stream-json"} {
		assert.NoError(t, passthrough{OutputFormat: f}.validate(), f)
	}
	assert.ErrorContains(t, passthrough{OutputFormat: "yaml"}.validate(), "invalid --output-format")
}
