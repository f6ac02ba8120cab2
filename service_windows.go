//go:build windows

// Windows service support via github.com/kardianos/service, so the backend
// can run as a background service with proper Start/Stop handling.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kardianos/service"
)

// program implements service.Interface around run().
type program struct {
	exit chan struct{}
	code int
}

func (p *program) Start(s service.Service) error {
	p.exit = make(chan struct{})
	go func() {
		defer close(p.exit)
		p.code = run()
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	// run() exits once the shutdown coordinator receives the signal the
	// service manager sends; wait for it, bounded.
	select {
	case <-p.exit:
		return nil
	case <-time.After(45 * time.Second):
		return fmt.Errorf("timeout waiting for service to stop")
	}
}

func serviceConfig() *service.Config {
	return &service.Config{
		Name:        "PaintlyBackend",
		DisplayName: "Paintly Backend Service",
		Description: "Prompt construction and AI image generation for exterior painting simulations",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

// RunAsService runs as a Windows service when not attached to a terminal.
// Returns false when running interactively.
func RunAsService() (bool, error) {
	svc, err := service.New(&program{}, serviceConfig())
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}
	if service.Interactive() {
		return false, nil
	}
	if err := svc.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

// HandleServiceCommand handles install/uninstall/start/stop subcommands.
// Returns true when a command was handled.
func HandleServiceCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "install", "uninstall", "start", "stop":
	default:
		return false
	}

	svc, err := service.New(&program{}, serviceConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create service: %v\n", err)
		os.Exit(1)
	}
	if err := service.Control(svc, args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "service %s failed: %v\n", args[0], err)
		os.Exit(1)
	}
	fmt.Printf("service %s completed\n", args[0])
	return true
}
