package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/chenyukang/gomoku/config"
	"github.com/chenyukang/gomoku/engine"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

// commandMetadata holds autocomplete information for a command
type commandMetadata struct {
	options []string
	args    []string
}

var strategyNames = []string{engine.StrategyMinimax, engine.StrategyMonte}

var commands = map[string]commandMetadata{
	"solve":    {args: strategyNames},
	"selfplay": {args: strategyNames, options: []string{"-max"}},
	"help":     {args: []string{"solve", "set"}},
}

var commandNames = []string{
	"new", "load", "place", "undo", "show", "gen", "solve", "selfplay",
	"set", "stats", "help", "exit",
}

// values offered after "set KEY"
var settingValues = map[string][]string{
	config.ConfigStrategy:              strategyNames,
	config.ConfigOutputFormat:          {"json", "yaml"},
	config.ConfigMctsSimulation:        {"rollout", "heuristic"},
	config.ConfigMctsStoppingCondition: {"none", "95", "98", "99"},
	config.ConfigMctsRandomRollouts:    {"true", "false"},
	config.ConfigMctsReuseTree:         {"true", "false"},
	config.ConfigMinimaxTTable:         {"true", "false"},
	config.ConfigDebug:                 {"true", "false"},
}

func (c *ShellCompleter) settingKeys() []string {
	keys := c.sc.cfg.AllKeys()
	sort.Strings(keys)
	return keys
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		// the number of complete arguments after the command
		nargs := len(fields) - 1
		if !endsWithSpace {
			nargs--
		}

		switch {
		case cmdName == "set" && nargs == 0:
			completions = c.settingKeys()
		case cmdName == "set" && nargs == 1:
			completions = settingValues[fields[1]]
		default:
			md := commands[cmdName]
			if strings.HasPrefix(prefix, "-") || len(md.args) == 0 {
				completions = md.options
			} else {
				completions = md.args
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
