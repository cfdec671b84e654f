package initcmd

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/certbind-io/winrm-certbind/internal/logging"
)

// NewWelcomeForm creates the welcome and file configuration form.
func NewWelcomeForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to WinRM CertBind Setup!").
				Description("This wizard will help you create a configuration file for winrm-certbind.\n\n"+
					"The tool binds the WinRM HTTPS listener to the best server\n"+
					"certificate from the local machine store in a single pass."),

			huh.NewInput().
				Title("Config file path").
				Description("Where to save the configuration file").
				Placeholder("./certbind.yaml").
				Value(&state.ConfigPath).
				Validate(ValidateConfigPath),
		),
	).WithTheme(CreateTheme())
}

// NewLogForm creates the maintenance log configuration form.
func NewLogForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Maintenance Log").
				Description("Every run writes exactly one record describing its outcome"),

			huh.NewSelect[string]().
				Title("Log Backend").
				Description("Where the per-run outcome record is written").
				Options(
					huh.NewOption("Log file (recommended)", logging.BackendFile),
					huh.NewOption("Windows event log", logging.BackendEventLog),
				).
				Value(&state.LogBackend),

			huh.NewInput().
				Title("Log File Path").
				Description("Only used by the file backend").
				Placeholder(`C:\ProgramData\CertBind\certbind.log`).
				Value(&state.LogFilePath),

			huh.NewSelect[string]().
				Title("Console Log Level").
				Description("Diagnostic verbosity on stderr").
				Options(
					huh.NewOption("Debug (verbose)", "debug"),
					huh.NewOption("Info (recommended)", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error (quiet)", "error"),
				).
				Value(&state.LogLevel),
		),
	).WithTheme(CreateTheme())
}

// NewHostForm creates the host identity override form.
func NewHostForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Host Identity").
				Description("Leave blank to resolve from the platform (recommended)"),

			huh.NewInput().
				Title("Computer Name Override").
				Description("Short NetBIOS name used to match certificate subjects").
				Placeholder("(auto-detect)").
				Value(&state.ComputerName).
				Validate(ValidateComputerName),

			huh.NewInput().
				Title("FQDN Override").
				Description("Fully qualified name used as the listener hostname").
				Placeholder("(auto-detect)").
				Value(&state.FQDN).
				Validate(ValidateFQDN),
		),
	).WithTheme(CreateTheme())
}

// NewListenerForm creates the listener and verification configuration form.
func NewListenerForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Listener & Verification").
				Description("Configure the HTTPS listener port and the optional post-run TLS probe"),

			huh.NewInput().
				Title("Listener Port").
				Description("WinRM HTTPS port (default: 5986)").
				Placeholder("5986").
				Value(&state.ListenerPortStr).
				Validate(ValidatePort),

			huh.NewConfirm().
				Title("Verify the listener after a successful run?").
				Description("Performs a local TLS handshake and compares thumbprints").
				Value(&state.VerifyEnabled).
				Affirmative("Yes").
				Negative("No"),

			huh.NewInput().
				Title("Verification Timeout").
				Description("TLS handshake deadline (e.g. 10s)").
				Placeholder("10s").
				Value(&state.VerifyTimeout).
				Validate(ValidateTimeout),
		),
	).WithTheme(CreateTheme())
}

// NewOutputsForm creates the optional outputs form.
func NewOutputsForm(state *WizardState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Optional Outputs").
				Description("Leave blank to disable"),

			huh.NewInput().
				Title("Metrics Textfile Path").
				Description("Prometheus textfile collector output (.prom)").
				Placeholder(`C:\ProgramData\CertBind\certbind.prom`).
				Value(&state.MetricsPath).
				Validate(ValidateOptionalPath),

			huh.NewInput().
				Title("State Directory").
				Description("Directory for last-run state persistence").
				Placeholder(`C:\ProgramData\CertBind`).
				Value(&state.StateDir).
				Validate(ValidateOptionalPath),
		),
	).WithTheme(CreateTheme())
}

// NewOverwriteConfirmForm creates a form to confirm file overwrite.
func NewOverwriteConfirmForm(state *WizardState, path string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("File '%s' already exists. Overwrite?", path)).
				Description("The existing file will be replaced with the new configuration.").
				Value(&state.OverwriteFile).
				Affirmative("Yes, overwrite").
				Negative("No, cancel"),
		),
	).WithTheme(CreateTheme())
}
