package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Input is a test case input decoded into ordered call arguments.
type Input struct {
	// Raw is the compacted input document.
	Raw string
	// IsObject is set for mapping inputs; Keys then holds the parameter names.
	IsObject bool
	Keys     []string
	Args     []json.RawMessage
}

// ParseInput decodes a test case input while keeping object key order, which
// decides the positional order of arguments. Arrays are positional arguments,
// any other value is a single argument, and an empty document means none.
func ParseInput(inputJSON string) (*Input, error) {
	trimmed := strings.TrimSpace(inputJSON)
	if trimmed == "" || trimmed == "null" {
		return &Input{Raw: "[]", Args: []json.RawMessage{}}, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(trimmed)); err != nil {
		return nil, fmt.Errorf("failed to decode test case input: %w", err)
	}

	in := &Input{Raw: compact.String(), Args: []json.RawMessage{}}
	dec := json.NewDecoder(bytes.NewReader(compact.Bytes()))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode test case input: %w", err)
	}

	switch tok {
	case json.Delim('{'):
		in.IsObject = true
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to decode input key: %w", err)
			}
			key, _ := keyTok.(string)
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("failed to decode input %q: %w", key, err)
			}
			in.Keys = append(in.Keys, key)
			in.Args = append(in.Args, value)
		}
	case json.Delim('['):
		for dec.More() {
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("failed to decode input argument: %w", err)
			}
			in.Args = append(in.Args, value)
		}
	default:
		in.Args = append(in.Args, json.RawMessage(in.Raw))
		return in, nil
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode test case input: %w", err)
	}
	return in, nil
}

// ArgsJSON renders the arguments as a JSON array.
func (in *Input) ArgsJSON() string {
	parts := make([]string, len(in.Args))
	for i, a := range in.Args {
		parts[i] = string(a)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

const defaultParam = "input"

var paramName = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// ParamNames returns starter parameter names for an input: the keys of an
// object input, otherwise input or arg1..argN. Keys that are not plain
// identifiers fall back to positional names.
func ParamNames(in *Input) []string {
	if in == nil || len(in.Args) == 0 {
		return []string{defaultParam}
	}
	if in.IsObject {
		valid := true
		for _, k := range in.Keys {
			if !paramName.MatchString(k) {
				valid = false
				break
			}
		}
		if valid {
			return append([]string(nil), in.Keys...)
		}
	}
	if len(in.Args) == 1 {
		return []string{defaultParam}
	}
	names := make([]string, len(in.Args))
	for i := range in.Args {
		names[i] = fmt.Sprintf("arg%d", i+1)
	}
	return names
}
