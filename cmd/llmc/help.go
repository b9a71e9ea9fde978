package main

const helpGuide = `# llmc

Describe what you want in plain words and llmc prints the shell command.

    llmc find all go files changed in the last day

The model may inspect the current directory first with a small set of
read-only commands (` + "`ls`, `cat`, `grep`, `find`" + ` and friends). It never runs the
command it suggests.

## Configuration

Settings are read from ` + "`$XDG_CONFIG_HOME/llmc/config.json`" + ` and then from the
environment. Flags win over both.

| Variable | Meaning |
|---|---|
| ` + "`LLM_API_KEY`" + ` | API key (required) |
| ` + "`LLM_API_BASE`" + ` | API base URL |
| ` + "`LLM_MODEL`" + ` | Model identifier |
| ` + "`LLM_DIALECT`" + ` | chat_completions, anthropic_messages or gemini |
| ` + "`LLMC_LOG_LEVEL`" + ` | debug, info, warn or error |

A base URL on anthropic.com selects the Anthropic dialect. Anything else is
treated as an OpenAI-compatible endpoint unless a dialect is set.
`
