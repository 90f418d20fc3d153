// Package tasks holds the maintenance actions and the default task catalog.
package tasks

import (
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/engine/netdiff"
	"go.trai.ch/zerr"
)

// Task names, in catalog order.
const (
	NameLogCleanup     = "log-cleanup"
	NameIntegrityScan  = "integrity-scan"
	NameImageRepair    = "image-repair"
	NameImageCleanup   = "image-cleanup"
	NameDiskCheck      = "disk-check"
	NameDriverRescan   = "driver-rescan"
	NameUpdateInstall  = "update-install"
	NameNetworkReset   = "network-reset"
	NameRegistryBackup = "registry-backup"
	NameCriticalEvents = "critical-events"
	NameTempCleanup    = "temp-cleanup"
	NameDiskCleanup    = "disk-cleanup"
	NameCrashDumps     = "crash-dumps"
)

// Deps are the collaborators the catalog's actions run against.
type Deps struct {
	Executor ports.CommandExecutor
	Files    ports.Files
	Volumes  ports.Volumes
	Network  ports.NetworkAdapters
	Journal  ports.Journal
	// DryRun replaces file removal and the network reset with a description
	// of what would happen. Commands are expected to go to a dry-run executor.
	DryRun bool
	Now    func() time.Time
}

// Catalog returns the full maintenance sequence configured by cfg.
func Catalog(cfg *domain.Config, deps Deps) []domain.Task {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	cmd := func(key string) domain.Command {
		return cfg.Commands[key]
	}

	var reset domain.Action = &NetworkReset{
		Resetter: netdiff.New(deps.Network, deps.Journal, netdiff.Config{
			PollInterval: cfg.Network.PollInterval,
			Timeout:      cfg.Network.StabilizationTimeout,
		}),
	}
	if deps.DryRun {
		reset = &PlannedReset{Operations: deps.Network.ResetOperations()}
	}

	return []domain.Task{
		{
			Name:   NameLogCleanup,
			Action: &Sweep{Files: deps.Files, Journal: deps.Journal, Config: cfg.Cleanup.Logs, DryRun: deps.DryRun, Now: deps.Now},
		},
		{
			Name:   NameIntegrityScan,
			Action: &IntegrityScan{Executor: deps.Executor, Cmd: cmd(domain.CmdIntegrityScan)},
		},
		{
			Name:   NameImageRepair,
			Action: &ImageServicing{Executor: deps.Executor, Cmd: cmd(domain.CmdImageRepair), Done: "image health restored"},
		},
		{
			Name:   NameImageCleanup,
			Action: &ImageServicing{Executor: deps.Executor, Cmd: cmd(domain.CmdImageCleanup), Done: "component store cleaned"},
		},
		{
			Name:   NameDiskCheck,
			Action: &DiskCheck{Executor: deps.Executor, Cmd: cmd(domain.CmdDiskCheck)},
		},
		{
			Name:   NameDriverRescan,
			Action: &Command{Executor: deps.Executor, Cmd: cmd(domain.CmdDriverRescan), Done: "devices rescanned"},
		},
		{
			Name:     NameUpdateInstall,
			Category: domain.Retryable,
			Action: &UpdateInstall{
				Executor:   deps.Executor,
				Cmd:        cmd(domain.CmdUpdateInstall),
				AutoReboot: cfg.Update.AutoReboot,
			},
			Recovery: &Command{Executor: deps.Executor, Cmd: cmd(domain.CmdUpdateRecovery), Done: "update service restarted"},
		},
		{
			Name:   NameNetworkReset,
			Action: reset,
		},
		{
			Name:     NameRegistryBackup,
			Category: domain.PrerequisiteGated,
			Action: &RegistryBackup{
				Executor: deps.Executor,
				Files:    deps.Files,
				Journal:  deps.Journal,
				Cmd:      cmd(domain.CmdRegistryExport),
				Config:   cfg.Registry,
				DryRun:   deps.DryRun,
				Now:      deps.Now,
			},
		},
		{
			Name: NameCriticalEvents,
			Action: &CriticalEvents{
				Executor:  deps.Executor,
				Journal:   deps.Journal,
				Cmd:       cmd(domain.CmdCriticalEvents),
				Lookback:  cfg.Events.Lookback,
				MaxEvents: cfg.Events.MaxEvents,
			},
		},
		{
			Name:   NameTempCleanup,
			Action: &Sweep{Files: deps.Files, Journal: deps.Journal, Config: cfg.Cleanup.Temp, DryRun: deps.DryRun, Now: deps.Now},
		},
		{
			Name: NameDiskCleanup,
			Action: &DiskCleanup{
				Executor: deps.Executor,
				Volumes:  deps.Volumes,
				Journal:  deps.Journal,
				Cmd:      cmd(domain.CmdDiskCleanup),
				Volume:   cfg.Cleanup.Volume,
			},
		},
		{
			Name:   NameCrashDumps,
			Action: &CrashDumps{Files: deps.Files, Journal: deps.Journal, Config: cfg.CrashDumps, DryRun: deps.DryRun, Now: deps.Now},
		},
	}
}

// Select drops the tasks named in skip, keeping the order of the rest.
// Naming a task that is not in all is an error.
func Select(all []domain.Task, skip []string) ([]domain.Task, error) {
	known := make(map[string]bool, len(all))
	for _, t := range all {
		known[t.Name] = true
	}

	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		if !known[name] {
			return nil, zerr.With(domain.ErrUnknownTask, "task", name)
		}
		skipped[name] = true
	}

	selected := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if !skipped[t.Name] {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
