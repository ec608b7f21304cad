// Package mcp serves stored sessions and their analyses over a Model
// Context Protocol stdio server.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

// protocolVersion is the MCP revision the server speaks.
const protocolVersion = "2024-11-05"

// Server is an MCP stdio server. It reads JSON-RPC requests from r and
// writes JSON-RPC responses to w. Calls are dispatched to registered tools.
type Server struct {
	tools   []toolDef
	store   Store
	engine  *analyzer.Engine
	version string
}

// toolDef describes a registered MCP tool.
type toolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     toolHandler
}

// toolHandler is the function signature for MCP tool handlers.
type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// jsonrpcRequest is a JSON-RPC 2.0 request message.
type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

// jsonrpcResponse is a JSON-RPC 2.0 response message.
type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

// jsonrpcError represents a JSON-RPC 2.0 error object.
type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// toolsCallParams is the params structure for tools/call requests.
type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// toolsCallResult wraps a tool result as an MCP content response.
type toolsCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError"`
}

// mcpContent is a single content item in an MCP tool response.
type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolListEntry is the shape of a single tool in a tools/list response.
type toolListEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// NewServer constructs a Server over st. engine runs on-demand analyses.
func NewServer(st Store, engine *analyzer.Engine, version string) *Server {
	s := &Server{store: st, engine: engine, version: version}
	addTools(s)
	return s
}

// registerTool appends a toolDef to s.tools.
func (s *Server) registerTool(def toolDef) {
	s.tools = append(s.tools, def)
}

// Run blocks, reading JSON-RPC 2.0 messages from r and writing responses to w,
// until ctx is cancelled or r returns EOF. Returns nil on clean shutdown,
// or a non-nil error for unexpected I/O failures.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lineCh)
		for scanner.Scan() {
			select {
			case lineCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lineCh:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			if err := s.handleLine(ctx, line, bw); err != nil {
				return err
			}
		}
	}
}

// handleLine processes a single JSON-RPC line and writes the response.
func (s *Server) handleLine(ctx context.Context, line string, bw *bufio.Writer) error {
	var req jsonrpcRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return s.writeResponse(bw, jsonrpcResponse{
			JSONRPC: "2.0",
			Error:   &jsonrpcError{Code: codeParseError, Message: "Parse error"},
		})
	}

	// Notifications (no id) get no response.
	if req.ID == nil {
		return nil
	}

	resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "uxpulse",
				"version": s.version,
			},
		}

	case "tools/list":
		entries := make([]toolListEntry, 0, len(s.tools))
		for _, t := range s.tools {
			entries = append(entries, toolListEntry{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: t.InputSchema,
			})
		}
		resp.Result = map[string]any{"tools": entries}

	case "tools/call":
		var params toolsCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &jsonrpcError{Code: codeInvalidParams, Message: "Invalid params"}
			break
		}
		resp.Result = s.callTool(ctx, params)

	default:
		resp.Error = &jsonrpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}

	return s.writeResponse(bw, resp)
}

// callTool runs a tool and wraps its result, or its failure, as content.
func (s *Server) callTool(ctx context.Context, params toolsCallParams) toolsCallResult {
	var found *toolDef
	for i := range s.tools {
		if s.tools[i].Name == params.Name {
			found = &s.tools[i]
			break
		}
	}
	if found == nil {
		return errorResult(fmt.Errorf("unknown tool: %s", params.Name))
	}

	args := params.Arguments
	if args == nil {
		args = json.RawMessage(`{}`)
	}

	result, err := found.Handler(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errorResult(err)
	}
	return toolsCallResult{Content: []mcpContent{{Type: "text", Text: string(data)}}}
}

func errorResult(err error) toolsCallResult {
	return toolsCallResult{
		Content: []mcpContent{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

// writeResponse marshals resp as a single JSON line and flushes the writer.
func (s *Server) writeResponse(bw *bufio.Writer, resp jsonrpcResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := bw.Write(data); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}
