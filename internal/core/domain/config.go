package domain

import "time"

// Config is the maintenance configuration, usually read from tend.yaml.
// Every field has a default, so an absent file yields DefaultConfig().
type Config struct {
	Version    string             `yaml:"version"`
	Log        LogConfig          `yaml:"log"`
	Journal    JournalConfig      `yaml:"journal"`
	Store      StoreConfig        `yaml:"store"`
	Tasks      TasksConfig        `yaml:"tasks"`
	Commands   map[string]Command `yaml:"commands" validate:"dive"`
	Update     UpdateConfig       `yaml:"update"`
	Network    NetworkConfig      `yaml:"network"`
	Registry   RegistryConfig     `yaml:"registry"`
	Events     EventsConfig       `yaml:"events"`
	Cleanup    CleanupConfig      `yaml:"cleanup"`
	CrashDumps SweepConfig        `yaml:"crash_dumps"`
}

// LogConfig locates the journal files.
type LogConfig struct {
	Dir       string `yaml:"dir" validate:"required"`
	MainFile  string `yaml:"main_file" validate:"required"`
	ErrorFile string `yaml:"error_file" validate:"required,nefield=MainFile"`
}

// JournalConfig configures the optional remote journal streams.
type JournalConfig struct {
	NATSURL      string   `yaml:"nats_url" validate:"omitempty,url"`
	NATSSubject  string   `yaml:"nats_subject" validate:"required_with=NATSURL"`
	KafkaBrokers []string `yaml:"kafka_brokers" validate:"omitempty,dive,hostname_port"`
	KafkaTopic   string   `yaml:"kafka_topic" validate:"required_with=KafkaBrokers"`
}

// StoreConfig locates the run summary store.
type StoreConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// TasksConfig selects which catalog tasks are registered.
type TasksConfig struct {
	Skip []string `yaml:"skip"`
}

// UpdateConfig configures the update installation task.
type UpdateConfig struct {
	// AutoReboot allows the update installer to reboot the host on its own.
	AutoReboot bool `yaml:"auto_reboot"`
}

// NetworkConfig configures the network reset task.
type NetworkConfig struct {
	// PollInterval is the readiness poll period. Zero disables polling and
	// waits StabilizationTimeout as a fixed delay instead.
	PollInterval         time.Duration    `yaml:"poll_interval" validate:"gte=0"`
	StabilizationTimeout time.Duration    `yaml:"stabilization_timeout" validate:"gt=0"`
	ListCommand          Command          `yaml:"list_command"`
	RestartCommand       Command          `yaml:"restart_command"`
	Resets               []ResetOperation `yaml:"resets" validate:"dive"`
}

// ResetOperation is one named stack-level reset.
type ResetOperation struct {
	Op      string  `yaml:"op" validate:"required"`
	Command Command `yaml:"command"`
}

// RegistryConfig configures the registry backup task.
type RegistryConfig struct {
	Key            string        `yaml:"key" validate:"required"`
	TempDir        string        `yaml:"temp_dir" validate:"required"`
	BackupDir      string        `yaml:"backup_dir" validate:"required"`
	Keep           int           `yaml:"keep" validate:"gte=1"`
	ReleaseTimeout time.Duration `yaml:"release_timeout" validate:"gt=0"`
	PollInterval   time.Duration `yaml:"poll_interval" validate:"gt=0"`
}

// EventsConfig configures the critical event inspection.
type EventsConfig struct {
	Lookback  time.Duration `yaml:"lookback" validate:"gt=0"`
	MaxEvents int           `yaml:"max_events" validate:"gte=1"`
}

// CleanupConfig groups the file sweeps.
type CleanupConfig struct {
	// Volume is the path whose free space disk-cleanup reports on.
	Volume string      `yaml:"volume" validate:"required"`
	Logs   SweepConfig `yaml:"logs"`
	Temp   SweepConfig `yaml:"temp"`
}

// SweepConfig describes which files a cleanup task removes.
type SweepConfig struct {
	Dirs     []string      `yaml:"dirs" validate:"required,min=1"`
	Patterns []string      `yaml:"patterns" validate:"required,min=1"`
	MaxAge   time.Duration `yaml:"max_age" validate:"gte=0"`
}

// Command keys used in Config.Commands.
const (
	CmdIntegrityScan  = "integrity-scan"
	CmdImageRepair    = "image-repair"
	CmdImageCleanup   = "image-cleanup"
	CmdDiskCheck      = "disk-check"
	CmdDriverRescan   = "driver-rescan"
	CmdUpdateInstall  = "update-install"
	CmdUpdateRecovery = "update-recovery"
	CmdDiskCleanup    = "disk-cleanup"
	CmdCriticalEvents = "critical-events"
	CmdRegistryExport = "registry-export"
)

func powershell(script string) Command {
	return Command{Name: "powershell.exe", Args: []string{"-NoProfile", "-NonInteractive", "-Command", script}}
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Log: LogConfig{
			Dir:       DefaultLogsPath(),
			MainFile:  MainLogFile,
			ErrorFile: ErrorLogFile,
		},
		Store: StoreConfig{Dir: DefaultRunsPath()},
		Commands: map[string]Command{
			CmdIntegrityScan: {Name: "sfc", Args: []string{"/scannow"}},
			CmdImageRepair:   {Name: "DISM", Args: []string{"/Online", "/Cleanup-Image", "/RestoreHealth"}},
			CmdImageCleanup:  {Name: "DISM", Args: []string{"/Online", "/Cleanup-Image", "/StartComponentCleanup"}},
			CmdDiskCheck:     {Name: "chkdsk", Args: []string{"C:", "/scan"}},
			CmdDriverRescan:  {Name: "pnputil", Args: []string{"/scan-devices"}},
			CmdUpdateInstall: powershell(
				"Import-Module PSWindowsUpdate; Install-WindowsUpdate -MicrosoftUpdate -AcceptAll",
			),
			CmdUpdateRecovery: powershell("Restart-Service -Name wuauserv -Force"),
			CmdDiskCleanup:    {Name: "cleanmgr", Args: []string{"/sagerun:1"}},
			CmdCriticalEvents: {Name: "wevtutil", Args: []string{"qe", "System", "/f:text", "/rd:true"}},
			CmdRegistryExport: {Name: "reg", Args: []string{"export"}},
		},
		Network: NetworkConfig{
			PollInterval:         2 * time.Second,
			StabilizationTimeout: 30 * time.Second,
			ListCommand: powershell(
				"Get-NetAdapter | Select-Object Name,Status,ReceiveLinkSpeed | ConvertTo-Json -Compress",
			),
			RestartCommand: powershell("Restart-NetAdapter -Confirm:$false -Name"),
			Resets: []ResetOperation{
				{Op: "winsock", Command: Command{Name: "netsh", Args: []string{"winsock", "reset"}}},
				{Op: "ip-stack", Command: Command{Name: "netsh", Args: []string{"int", "ip", "reset"}}},
				{Op: "flush-dns", Command: Command{Name: "ipconfig", Args: []string{"/flushdns"}}},
				{Op: "release", Command: Command{Name: "ipconfig", Args: []string{"/release"}}},
				{Op: "renew", Command: Command{Name: "ipconfig", Args: []string{"/renew"}}},
			},
		},
		Registry: RegistryConfig{
			Key:            `HKLM\SOFTWARE`,
			TempDir:        "${TEMP}",
			BackupDir:      "${ProgramData}/tend/registry",
			Keep:           3,
			ReleaseTimeout: 30 * time.Second,
			PollInterval:   500 * time.Millisecond,
		},
		Events: EventsConfig{
			Lookback:  24 * time.Hour,
			MaxEvents: 50,
		},
		Cleanup: CleanupConfig{
			Volume: "${SystemDrive}/",
			Logs: SweepConfig{
				Dirs:     []string{"${SystemRoot}/Logs/CBS", "${SystemRoot}/Logs/DISM"},
				Patterns: []string{"*.log", "*.cab"},
				MaxAge:   7 * 24 * time.Hour,
			},
			Temp: SweepConfig{
				Dirs:     []string{"${TEMP}", "${SystemRoot}/Temp"},
				Patterns: []string{"*"},
				MaxAge:   3 * 24 * time.Hour,
			},
		},
		CrashDumps: SweepConfig{
			Dirs:     []string{"${SystemRoot}/Minidump", "${LOCALAPPDATA}/CrashDumps"},
			Patterns: []string{"*.dmp"},
			MaxAge:   14 * 24 * time.Hour,
		},
	}
}
