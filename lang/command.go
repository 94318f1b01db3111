package lang

import (
	"iter"
	"log/slog"
	"sort"

	"github.com/sahilm/fuzzy"
)

// Command identifies the operation of an expression. It is the leading
// element (the tag) of every expression.
type Command int

const (
	CommandCall   Command = iota // call
	CommandGet                   // get
	CommandLambda                // lambda
	CommandSet                   // set
	CommandValue                 // value
)

// commandNames lists the command tags in Command order.
var commandNames = []string{
	CommandCall:   CommandCall.String(),
	CommandGet:    CommandGet.String(),
	CommandLambda: CommandLambda.String(),
	CommandSet:    CommandSet.String(),
	CommandValue:  CommandValue.String(),
}

// ParseCommand returns the Command named by tag.
func ParseCommand(tag string) (Command, bool) {
	for i, name := range commandNames {
		if name == tag {
			return Command(i), true
		}
	}

	return -1, false
}

// Commands returns an iterator over all command tags.
func Commands() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range commandNames {
			if !yield(name) {
				return
			}
		}
	}
}

// unknownCommand builds the error reported for an unrecognized tag, with a
// suggestion when the tag resembles a known command.
func unknownCommand(tag string, source any) *Error {
	err := ErrUnknownCommand.With(
		slog.String("command", tag),
		slog.String("expression", FormatResult(source)),
	)

	if s, ok := suggestCommand(tag); ok {
		err = err.With(slog.String("suggestion", s))
	}

	return err
}

// suggestCommand returns the command tag that best matches tag, either as a
// fuzzy abbreviation of the command or as a misspelling containing it.
func suggestCommand(tag string) (string, bool) {
	if tag == "" {
		return "", false
	}

	if matches := fuzzy.Find(tag, commandNames); len(matches) > 0 {
		return matches[0].Str, true
	}

	best := fuzzy.Matches{}

	for _, name := range commandNames {
		for _, m := range fuzzy.Find(name, []string{tag}) {
			m.Str, m.Index = name, len(best)
			best = append(best, m)
		}
	}

	if len(best) == 0 {
		return "", false
	}

	sort.Stable(best)

	return best[0].Str, true
}
