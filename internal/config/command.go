package config

import (
	"encoding/json"
	"fmt"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// CommandLine is an argv vector. In the config file it may be written
// either as an array of strings or as a single command-line string,
// which is split with shell-like quoting rules.
type CommandLine []string

// UnmarshalJSON accepts both the array and the string form
func (c *CommandLine) UnmarshalJSON(data []byte) error {
	var argv []string
	if err := json.Unmarshal(data, &argv); err == nil {
		*c = argv
		return nil
	}

	var line string
	if err := json.Unmarshal(data, &line); err != nil {
		return fmt.Errorf("command must be a string or an array of strings")
	}

	argv, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("invalid command line %q: %w", line, err)
	}
	*c = argv
	return nil
}

// UnmarshalYAML accepts both the sequence and the scalar form
func (c *CommandLine) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var argv []string
		if err := value.Decode(&argv); err != nil {
			return err
		}
		*c = argv
		return nil
	}

	var line string
	if err := value.Decode(&line); err != nil {
		return fmt.Errorf("command must be a string or a sequence of strings")
	}

	argv, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("invalid command line %q: %w", line, err)
	}
	*c = argv
	return nil
}
