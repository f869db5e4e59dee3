package out

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Envelope wraps every command result with enough context for scripting:
// which command ran, on which network, as which address.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorBody   `json:"error"`
	Meta    EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
	Network   string    `json:"network,omitempty"`
	Address   string    `json:"address,omitempty"`
}

// Options controls rendering: json (default) or plain key=value lines, and
// results-only output that strips the envelope for piping.
type Options struct {
	Mode        string
	ResultsOnly bool
}

func Render(w io.Writer, env Envelope, opts Options) error {
	payload := any(env)
	if opts.ResultsOnly && env.Success {
		payload = env.Data
	}

	if opts.Mode == "plain" {
		return renderPlain(w, payload)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func renderPlain(w io.Writer, data any) error {
	n := normalizeValue(data)
	switch t := n.(type) {
	case []any:
		if len(t) == 0 {
			_, err := fmt.Fprintln(w, "[]")
			return err
		}
		for _, item := range t {
			line, err := toLine(item)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		line, err := toLine(n)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, line)
		return err
	}
}

func normalizeValue(v any) any {
	buf, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return v
	}
	return out
}

func toLine(v any) (string, error) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, t[k]))
		}
		return strings.Join(parts, " "), nil
	default:
		buf, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	}
}
