package flags

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	OutputYAML = "yaml"
	OutputJSON = "json"
	OutputNone = "none"
)

func AddOutput(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", OutputNone, "Print the result as yaml, json or none")
}

func HandleOutput(cmd *cobra.Command) (string, error) {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	switch out {
	case OutputYAML, OutputJSON, OutputNone:
		return out, nil
	default:
		return "", fmt.Errorf("invalid output %q. Please choose from 'yaml', 'json', or 'none'", out)
	}
}

// Write encodes v to w in the given output format.
func Write(w io.Writer, output string, v any) error {
	switch output {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return nil
}
