package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// readInput decodes a YAML or JSON file into v. "-" reads stdin.
func readInput(path string, stdin io.Reader, v interface{}) error {
	if path == "" {
		return fmt.Errorf("input file required (-f)")
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse input %s: %w", path, err)
	}
	return nil
}
