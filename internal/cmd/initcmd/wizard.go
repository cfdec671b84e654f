package initcmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/certbind-io/winrm-certbind/internal/logging"
)

// Wizard manages the interactive configuration wizard.
type Wizard struct {
	state      *WizardState
	outputPath string
}

// NewWizard creates a new wizard instance.
func NewWizard() *Wizard {
	return &Wizard{
		state: NewWizardState(),
	}
}

// SetOutputPath sets the output path (from command line flag).
func (w *Wizard) SetOutputPath(path string) {
	w.outputPath = path
	if path != "" {
		w.state.ConfigPath = path
	}
}

// Run executes the wizard flow.
func (w *Wizard) Run() error {
	// Setup signal handling for graceful Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println()
		fmt.Println(RenderWarning("Setup canceled by user"))
		os.Exit(0)
	}()

	// Print header
	fmt.Println()
	fmt.Println(RenderHeader())
	fmt.Println()

	// Step 1: Welcome and file configuration
	if err := w.runForm(NewWelcomeForm(w.state)); err != nil {
		return w.handleError(err)
	}

	// Step 2: Check for existing file
	if err := w.handleExistingFile(); err != nil {
		return err
	}

	// Step 3: Maintenance log configuration
	fmt.Println(RenderSection("Maintenance Log"))
	if err := w.runForm(NewLogForm(w.state)); err != nil {
		return w.handleError(err)
	}

	// Step 4: Host identity overrides
	fmt.Println(RenderSection("Host Identity"))
	if err := w.runForm(NewHostForm(w.state)); err != nil {
		return w.handleError(err)
	}

	// Step 5: Listener and verification
	fmt.Println(RenderSection("Listener & Verification"))
	if err := w.runForm(NewListenerForm(w.state)); err != nil {
		return w.handleError(err)
	}

	// Step 6: Optional outputs
	fmt.Println(RenderSection("Optional Outputs"))
	if err := w.runForm(NewOutputsForm(w.state)); err != nil {
		return w.handleError(err)
	}

	// Step 7: Generate and validate config
	cfg, err := w.state.ToConfig()
	if err != nil {
		return w.handleError(fmt.Errorf("failed to create configuration: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return w.handleValidationError(err)
	}

	// Step 8: Write config file
	fmt.Println()
	if err := WriteConfig(cfg, w.state.ConfigPath); err != nil {
		return w.handleError(err)
	}

	// Step 9: Show success and next steps
	w.showSuccess()

	return nil
}

func (w *Wizard) runForm(form *huh.Form) error {
	return form.Run()
}

func (w *Wizard) handleExistingFile() error {
	if !FileExists(w.state.ConfigPath) {
		return nil
	}

	form := NewOverwriteConfirmForm(w.state, w.state.ConfigPath)
	if err := form.Run(); err != nil {
		return w.handleError(err)
	}

	if !w.state.OverwriteFile {
		fmt.Println(RenderWarning("Setup canceled: file already exists"))
		os.Exit(0)
	}

	return nil
}

func (w *Wizard) handleError(err error) error {
	if err == huh.ErrUserAborted {
		fmt.Println()
		fmt.Println(RenderWarning("Setup canceled"))
		os.Exit(0)
	}
	fmt.Println()
	fmt.Println(RenderError(err.Error()))
	return err
}

func (w *Wizard) handleValidationError(err error) error {
	fmt.Println()
	fmt.Println(RenderError("Configuration validation failed:"))
	fmt.Println(RenderError("  " + err.Error()))
	fmt.Println()
	fmt.Println(RenderInfo("Please run 'winrm-certbind init' again with corrected values."))
	return err
}

func (w *Wizard) showSuccess() {
	fmt.Println()
	fmt.Println(RenderSuccess("Config written to " + w.state.ConfigPath))
	fmt.Println(RenderSuccess("Validated successfully"))
	fmt.Println()

	// Show summary
	fmt.Println(TitleStyle.Render("Configuration Summary:"))
	fmt.Println(MutedStyle.Render("  Log backend:   ") + w.state.LogBackend)
	fmt.Println(MutedStyle.Render("  Listener port: ") + w.state.ListenerPortStr)
	fmt.Println(MutedStyle.Render("  Verify probe:  ") + strconv.FormatBool(w.state.VerifyEnabled))
	fmt.Println()

	fmt.Println(TitleStyle.Render("Next steps:"))
	fmt.Println()
	fmt.Println("  To validate your config:")
	fmt.Println("    " + RenderCode("winrm-certbind validate -c "+w.state.ConfigPath))
	fmt.Println()
	fmt.Println("  To reconcile the listener:")
	fmt.Println("    " + RenderCode("winrm-certbind run -c "+w.state.ConfigPath))
	fmt.Println()
}

// RunNonInteractive runs the wizard in non-interactive mode using environment variables.
func RunNonInteractive(outputPath string) error {
	state := NewWizardState()
	state.ConfigPath = outputPath

	if backend := os.Getenv("WCB_LOG_BACKEND"); backend != "" {
		state.LogBackend = backend
	}

	if path := os.Getenv("WCB_LOG_FILE_PATH"); path != "" {
		state.LogFilePath = path
	}

	if level := os.Getenv("WCB_LOG_LEVEL"); level != "" {
		state.LogLevel = level
	}

	if port := os.Getenv("WCB_LISTENER_PORT"); port != "" {
		state.ListenerPortStr = port
	}

	if enabled := os.Getenv("WCB_VERIFY_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("WCB_VERIFY_ENABLED must be a boolean: %w", err)
		}
		state.VerifyEnabled = v
	}

	if path := os.Getenv("WCB_METRICS_PATH"); path != "" {
		state.MetricsPath = path
	}

	if dir := os.Getenv("WCB_STATE_DIR"); dir != "" {
		state.StateDir = dir
	}

	if state.LogBackend != logging.BackendFile && state.LogBackend != logging.BackendEventLog {
		return fmt.Errorf("WCB_LOG_BACKEND must be %q or %q", logging.BackendFile, logging.BackendEventLog)
	}

	// Convert and validate
	cfg, err := state.ToConfig()
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// Write config
	if err := WriteConfig(cfg, state.ConfigPath); err != nil {
		return err
	}

	fmt.Println(RenderSuccess("Config written to " + state.ConfigPath))
	return nil
}
