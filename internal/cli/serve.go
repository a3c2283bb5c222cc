package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/election-dates/internal/logger"
	"github.com/pfrederiksen/election-dates/internal/query"
	"github.com/pfrederiksen/election-dates/internal/tools"
)

// request is one line of the stdio protocol. The special tool name
// "list_tools" returns the tool catalog instead of invoking a tool.
type request struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

type response struct {
	Tool    string       `json:"tool,omitempty"`
	Content string       `json:"content,omitempty"`
	Tools   []tools.Tool `json:"tools,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve query tools over line-delimited JSON on stdin/stdout",
		Long: `serve reads one JSON request per line from stdin and writes one JSON
response per line to stdout. Each request names a tool and its
arguments; the special tool "list_tools" returns the tool catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			registry := tools.New(query.New(store))
			return serve(os.Stdin, os.Stdout, registry)
		},
	}
}

func serve(in io.Reader, out io.Writer, registry *tools.Registry) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	encoder := json.NewEncoder(out)

	logger.Info("Serving query tools on stdin/stdout", logger.Fields{
		"tools": len(registry.List()),
	})

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := encoder.Encode(response{Error: fmt.Sprintf("invalid request: %v", err)}); encErr != nil {
				return encErr
			}
			continue
		}

		resp := handle(registry, &req)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func handle(registry *tools.Registry, req *request) response {
	if req.Tool == "list_tools" {
		return response{Tool: req.Tool, Tools: registry.List()}
	}

	logger.IncrCounter("serve.calls")
	logger.Debug("Tool call", logger.Fields{"tool": req.Tool})

	content, err := registry.Call(req.Tool, req.Arguments)
	if err != nil {
		logger.IncrCounter("serve.errors")
		return response{Tool: req.Tool, Error: err.Error()}
	}

	return response{Tool: req.Tool, Content: content}
}
