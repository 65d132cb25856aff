package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/waverider-dev/discord-bridge/logger/dlog"
	"github.com/waverider-dev/discord-bridge/tools"
	"golang.org/x/net/context"
)

const protocolVersion = "2024-11-05"

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
)

// Server speaks JSON-RPC 2.0 over newline delimited JSON, one message per
// line, the framing MCP clients use on stdio. Tool calls are forwarded to
// the dispatcher, which never fails the RPC itself: tool level problems
// come back inside the result payload.
type Server struct {
	dispatcher *tools.Dispatcher
	in         io.Reader

	mu  sync.Mutex
	out io.Writer
}

func NewServer(dispatcher *tools.Dispatcher, in io.Reader, out io.Writer) *Server {
	return &Server{dispatcher: dispatcher, in: in, out: out}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolDescriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputSchema tools.Schema `json:"inputSchema"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Run reads requests until the input closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		s.handle(ctx, line)
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.writeError(nil, codeParseError, "parse error: "+err.Error())
		return
	}

	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "discord-waverider",
				"version": "1.0.0",
			},
		})
	case "notifications/initialized":
		// Notification, no response.
	case "tools/list":
		s.writeResult(req.ID, map[string]any{"tools": s.descriptors()})
	case "tools/call":
		s.handleCall(ctx, req)
	default:
		if req.ID == nil {
			dlog.Debug("Ignoring unknown notification", "method", req.Method)
			return
		}
		s.writeError(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleCall(ctx context.Context, req request) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, codeInvalidRequest, "invalid tool call params: "+err.Error())
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result := s.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
	s.writeResult(req.ID, map[string]any{
		"content": []textContent{{Type: "text", Text: result}},
	})
}

func (s *Server) descriptors() []toolDescriptor {
	registered := s.dispatcher.Tools()
	descriptors := make([]toolDescriptor, 0, len(registered))
	for _, tool := range registered {
		descriptors = append(descriptors, toolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Schema,
		})
	}
	return descriptors
}

func (s *Server) writeResult(id json.RawMessage, result any) {
	s.write(response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.write(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) write(resp response) {
	if resp.ID == nil {
		resp.ID = json.RawMessage("null")
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		dlog.Error("Failed to marshal response", "err", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(append(payload, '\n')); err != nil {
		dlog.Error("Failed to write response", "err", err)
	}
}
