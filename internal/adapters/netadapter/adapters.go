// Package netadapter manages the host's network adapters through PowerShell
// and the classic network stack tools.
package netadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.NetworkAdapters = (*Adapters)(nil)

// Adapters implements ports.NetworkAdapters on top of a CommandExecutor.
type Adapters struct {
	executor ports.CommandExecutor
	cfg      domain.NetworkConfig
}

// New creates an Adapters using the commands in cfg.
func New(executor ports.CommandExecutor, cfg domain.NetworkConfig) *Adapters {
	return &Adapters{executor: executor, cfg: cfg}
}

// adapterRecord is one element of the Get-NetAdapter JSON output.
type adapterRecord struct {
	Name             string          `json:"Name"`
	Status           json.RawMessage `json:"Status"`
	ReceiveLinkSpeed json.Number     `json:"ReceiveLinkSpeed"`
}

// List runs the listing command and parses its JSON output.
func (a *Adapters) List(ctx context.Context) ([]domain.AdapterState, error) {
	res, err := a.run(ctx, a.cfg.ListCommand)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrAdapterListFailed.Error())
	}
	states, err := ParseAdapters([]byte(res.Output))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrAdapterListFailed.Error())
	}
	return states, nil
}

// Restart restarts one adapter by name.
func (a *Adapters) Restart(ctx context.Context, name string) error {
	cmd := a.cfg.RestartCommand
	cmd.Args = append(append([]string(nil), cmd.Args...), quote(name))
	_, err := a.run(ctx, cmd)
	return err
}

// ResetOperations returns the configured reset operation names in order.
func (a *Adapters) ResetOperations() []string {
	ops := make([]string, 0, len(a.cfg.Resets))
	for _, r := range a.cfg.Resets {
		ops = append(ops, r.Op)
	}
	return ops
}

// Reset runs the named reset operation.
func (a *Adapters) Reset(ctx context.Context, operation string) error {
	for _, r := range a.cfg.Resets {
		if r.Op == operation {
			_, err := a.run(ctx, r.Command)
			return err
		}
	}
	return zerr.With(domain.ErrUnknownResetOperation, "operation", operation)
}

func (a *Adapters) run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	res, err := a.executor.Execute(ctx, cmd)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		detail := "exit code " + strconv.Itoa(res.ExitCode)
		if tail := res.Tail(2); tail != "" {
			detail += ": " + tail
		}
		err := zerr.Wrap(errors.New(detail), domain.ErrCommandFailed.Error())
		return res, zerr.With(err, "command", cmd.String())
	}
	return res, nil
}

// ParseAdapters decodes ConvertTo-Json output, which is a single object for
// one adapter and an array otherwise. Empty output means no adapters.
func ParseAdapters(data []byte) ([]domain.AdapterState, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []adapterRecord
	if data[0] == '{' {
		var one adapterRecord
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, err
		}
		records = append(records, one)
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	states := make([]domain.AdapterState, 0, len(records))
	for _, r := range records {
		speed, _ := strconv.ParseUint(r.ReceiveLinkSpeed.String(), 10, 64)
		states = append(states, domain.AdapterState{
			Name:      r.Name,
			Status:    parseStatus(r.Status),
			LinkSpeed: speed,
		})
	}
	return states, nil
}

// parseStatus accepts the status either as its display string or as the
// numeric enum value older PowerShell versions emit.
func parseStatus(raw json.RawMessage) domain.AdapterStatus {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return domain.AdapterUnknown
		}
		s = numericStatus[n]
	}

	switch strings.ToLower(s) {
	case "up":
		return domain.AdapterUp
	case "disconnected", "down", "not present":
		return domain.AdapterDown
	case "disabled":
		return domain.AdapterDisabled
	default:
		return domain.AdapterUnknown
	}
}

// numericStatus maps the IF_OPER_STATUS values of
// MSFT_NetAdapter.InterfaceOperationalStatus.
var numericStatus = map[int]string{
	1: "up",
	2: "down",
	6: "not present",
	7: "down",
}

func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
