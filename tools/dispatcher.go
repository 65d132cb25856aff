package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/waverider-dev/discord-bridge/logger/dlog"
	"github.com/waverider-dev/discord-bridge/platform"
)

// Tool is one named operation the remote client can invoke.
type Tool struct {
	Name        string
	Description string
	Schema      Schema

	handler func(ctx context.Context, args map[string]any) (any, error)
}

// Schema describes a tool's arguments as a JSON schema object, the shape
// the tool listing protocol expects.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Dispatcher maps tool names to handlers running against one shared
// session. Entity references are re-resolved on every call; nothing is
// cached between dispatches.
type Dispatcher struct {
	session platform.Session
	tools   map[string]Tool
}

func NewDispatcher(session platform.Session) *Dispatcher {
	d := &Dispatcher{
		session: session,
		tools:   map[string]Tool{},
	}
	d.register(d.listServers())
	d.register(d.listChannels())
	d.register(d.getMessages())
	d.register(d.sendMessage())
	d.register(d.sendStructuredMessage())
	d.register(d.createChannel())
	d.register(d.deleteChannel())
	d.register(d.listMembers())
	d.register(d.getServerInfo())
	return d
}

func (d *Dispatcher) register(tool Tool) {
	d.tools[tool.Name] = tool
}

// Tools lists the catalogue in stable name order.
func (d *Dispatcher) Tools() []Tool {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	catalogue := make([]Tool, 0, len(names))
	for _, name := range names {
		catalogue = append(catalogue, d.tools[name])
	}
	return catalogue
}

// Dispatch runs one tool call and always returns a JSON string: the
// success payload, or {"error": ...}. No failure, including a panic in a
// handler, crosses this boundary as a fault.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (result string) {
	dispatchID := uuid.NewString()
	dlog.Info("dispatching tool", "tool", name, "dispatch_id", dispatchID)

	defer func() {
		if r := recover(); r != nil {
			dlog.Error("tool handler panicked", "tool", name, "dispatch_id", dispatchID, "panic", r)
			result = errorJSON(fmt.Sprintf("internal error in %s", name))
		}
	}()

	tool, ok := d.tools[name]
	if !ok {
		return errorJSON(fmt.Sprintf("unknown tool: %s", name))
	}

	payload, err := tool.handler(ctx, args)
	if err != nil {
		dlog.Warn("tool failed", "tool", name, "dispatch_id", dispatchID, "err", err)
		return errorJSON(err.Error())
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		dlog.Error("tool result not serializable", "tool", name, "dispatch_id", dispatchID, "err", err)
		return errorJSON(err.Error())
	}
	return string(encoded)
}

func errorJSON(message string) string {
	encoded, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		// map[string]string cannot fail to marshal
		return `{"error": "unserializable error"}`
	}
	return string(encoded)
}

// decodeArgs fills a typed argument struct from the raw argument map.
// Weak typing tolerates JSON numbers arriving as float64 where a handler
// wants an int, and numeric ids sent unquoted.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func parseID(field, value string) (snowflake.ID, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	id, err := snowflake.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, value)
	}
	return id, nil
}
