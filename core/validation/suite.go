// Package validation runs the startup preflight checks with colored
// terminal output.
package validation

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"paintly_backend/core"
)

// StepStatus is the terminal state of one preflight step.
type StepStatus int

const (
	StepPassed StepStatus = iota
	StepFailed
	StepWarning
	StepSkipped
)

// Step is one executed preflight check.
type Step struct {
	Name    string
	Status  StepStatus
	Message string
	Error   error
	Latency time.Duration
}

// Result aggregates a suite run.
type Result struct {
	Steps    []Step
	Passed   int
	Failed   int
	Warnings int
	Duration time.Duration
	Success  bool
}

// FirstError returns the first failed step's error, or nil.
func (r Result) FirstError() error {
	for _, s := range r.Steps {
		if s.Status == StepFailed && s.Error != nil {
			return s.Error
		}
	}
	return nil
}

// Suite runs the preflight checks in order, printing progress as it goes.
type Suite struct {
	cfg          *core.Config
	output       io.Writer
	skipNetwork  bool
	timeout      time.Duration
	showProgress bool
}

// NewSuite creates a Suite for the given configuration.
func NewSuite(cfg *core.Config) *Suite {
	return &Suite{
		cfg:          cfg,
		output:       os.Stdout,
		timeout:      10 * time.Second,
		showProgress: true,
	}
}

// WithOutput redirects progress output.
func (s *Suite) WithOutput(w io.Writer) *Suite {
	s.output = w
	return s
}

// WithSkipNetwork disables the connectivity probe.
func (s *Suite) WithSkipNetwork(skip bool) *Suite {
	s.skipNetwork = skip
	return s
}

// WithShowProgress enables or disables terminal output.
func (s *Suite) WithShowProgress(show bool) *Suite {
	s.showProgress = show
	return s
}

// Run executes every check. Configuration checks always run; the
// connectivity probe is skipped when earlier checks failed or network was
// opted out.
func (s *Suite) Run() Result {
	start := time.Now()
	if s.showProgress {
		s.printHeader("Paintly Startup Checks")
	}

	checks := []struct {
		name string
		fn   func() CheckResult
	}{
		{"Provider API Keys", func() CheckResult { return CheckProviderKeys(s.cfg) }},
		{"Provider Endpoints", func() CheckResult { return CheckEndpoints(s.cfg) }},
		{"Data Directory", func() CheckResult { return CheckDataDirectory(s.cfg) }},
		{"Database Migrations", func() CheckResult { return CheckMigrations(s.cfg) }},
		{"Admin Authentication", func() CheckResult { return CheckAdminAuth(s.cfg) }},
	}

	var steps []Step
	allPassed := true
	for _, check := range checks {
		step := s.runStep(check.name, check.fn)
		steps = append(steps, step)
		if step.Status == StepFailed {
			allPassed = false
		}
	}

	switch {
	case s.skipNetwork:
		steps = append(steps, s.skipStep("Provider Connectivity", "network checks disabled"))
	case !allPassed:
		steps = append(steps, s.skipStep("Provider Connectivity", "skipped due to configuration errors"))
	default:
		steps = append(steps, s.runStep("Provider Connectivity", func() CheckResult {
			return CheckConnectivity(s.cfg, s.timeout)
		}))
	}

	result := buildResult(steps, start)
	if s.showProgress {
		s.printSummary(result)
	}
	return result
}

func (s *Suite) runStep(name string, fn func() CheckResult) Step {
	started := time.Now()
	res := fn()
	step := Step{
		Name:    name,
		Message: res.Message,
		Error:   res.Error,
		Latency: time.Since(started),
	}
	switch {
	case !res.Passed:
		step.Status = StepFailed
	case res.Warning:
		step.Status = StepWarning
	default:
		step.Status = StepPassed
	}
	if s.showProgress {
		s.printStep(step)
	}
	return step
}

func (s *Suite) skipStep(name, reason string) Step {
	step := Step{Name: name, Status: StepSkipped, Message: reason}
	if s.showProgress {
		s.printStep(step)
	}
	return step
}

func buildResult(steps []Step, start time.Time) Result {
	result := Result{
		Steps:    steps,
		Duration: time.Since(start),
		Success:  true,
	}
	for _, step := range steps {
		switch step.Status {
		case StepPassed:
			result.Passed++
		case StepWarning:
			result.Passed++
			result.Warnings++
		case StepFailed:
			result.Failed++
			result.Success = false
		}
	}
	return result
}

func (s *Suite) printHeader(title string) {
	fmt.Fprintln(s.output)
	color.New(color.FgCyan, color.Bold).Fprintf(s.output, "=== %s ===\n", title)
	fmt.Fprintln(s.output)
}

func (s *Suite) printStep(step Step) {
	var icon string
	var clr *color.Color
	switch step.Status {
	case StepPassed:
		icon, clr = "✓", color.New(color.FgGreen)
	case StepFailed:
		icon, clr = "✗", color.New(color.FgRed)
	case StepWarning:
		icon, clr = "!", color.New(color.FgYellow)
	default:
		icon, clr = "○", color.New(color.FgHiBlack)
	}

	clr.Fprintf(s.output, "  %s %s", icon, step.Name)
	if step.Message != "" {
		color.New(color.FgHiBlack).Fprintf(s.output, " - %s", step.Message)
	}
	fmt.Fprintln(s.output)
	if step.Status == StepFailed && step.Error != nil {
		color.New(color.FgRed).Fprintf(s.output, "    %s\n", step.Error.Error())
	}
}

func (s *Suite) printSummary(result Result) {
	fmt.Fprintln(s.output)
	if result.Success {
		color.New(color.FgGreen, color.Bold).Fprintf(s.output, "=== Checks Passed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d warnings, %v)",
			result.Passed, result.Warnings, result.Duration.Round(time.Millisecond))
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(s.output, "=== Checks Failed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d failed)",
			result.Passed, result.Failed)
	}
	fmt.Fprintln(s.output, " ===")
	fmt.Fprintln(s.output)
}
