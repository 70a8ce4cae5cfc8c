package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mcoot/mtlobby/internal/api/response"
	"github.com/mcoot/mtlobby/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	o.printText(data)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, msg)
}

// PrintEvent outputs one push channel frame
func (o *Output) PrintEvent(at time.Time, event string, data json.RawMessage) {
	if o.format == "json" {
		line, _ := json.Marshal(PushEvent{Time: at, Event: event, Data: data})
		fmt.Fprintln(o.w, string(line))
		return
	}
	display := strings.ReplaceAll(string(data), "\n", " ")
	if len(display) > 120 {
		display = display[:120] + "..."
	}
	fmt.Fprintf(o.w, "[%s] %s: %s\n", at.Format("2006-01-02 15:04:05"), event, display)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Live sessions: %d\n", v.Sessions)
	case response.Presence:
		o.printPresence(v)
	case response.Status:
		fmt.Fprintf(o.w, "Status: %t\n", v.Status)
	case model.UserEnterAck:
		o.printAck(v)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printPresence(p response.Presence) {
	fmt.Fprintf(o.w, "Player: %s\n", p.UserToken)
	if p.Online {
		fmt.Fprintf(o.w, "Online: yes (connection %s", p.ConnectionID)
		if p.ConnectedSince != nil {
			fmt.Fprintf(o.w, ", since %s", p.ConnectedSince.Format(time.RFC3339))
		}
		fmt.Fprintln(o.w, ")")
	} else {
		fmt.Fprintln(o.w, "Online: no")
	}
	if len(p.Tables) == 0 {
		fmt.Fprintln(o.w, "Tables: none")
		return
	}
	fmt.Fprintf(o.w, "Tables: %s\n", strings.Join(p.Tables, ", "))
}

func (o *Output) printAck(a model.UserEnterAck) {
	if !a.Status {
		fmt.Fprintf(o.w, "Handshake rejected: %s\n", a.Error)
		return
	}
	fmt.Fprintf(o.w, "Connected as %s (rating %.0f)\n", a.Name, a.Rating)
	for _, t := range a.Tables {
		fmt.Fprintf(o.w, "  table %s\n", t)
	}
}

// PushEvent is one frame printed by watch in JSON mode
type PushEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
