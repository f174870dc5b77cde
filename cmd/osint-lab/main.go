package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/WangYihang/OSINT-Lab/pkg/common"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/interface/cli"
	"github.com/WangYihang/OSINT-Lab/pkg/interface/presenter"
	"github.com/WangYihang/OSINT-Lab/pkg/interface/server"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the program and returns its exit code
func run(args []string, stdout, stderr io.Writer) int {
	// Parse command line flags
	config, err := cli.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if config.Version {
		fmt.Fprintln(stdout, common.Current().String())
		return 0
	}

	// Create assembler
	assembler := cli.NewAssembler(config)
	assembler.ConfigureLogging()
	logrus.WithField("version", common.Current().Short()).Debug("starting")

	// Assemble use case with all dependencies
	useCase, err := assembler.AssembleUseCase()
	if err != nil {
		logrus.WithError(err).Error("failed to assemble")
		return 1
	}
	defer func() {
		if err := useCase.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close writers")
		}
	}()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(stderr, "\nReceived interrupt signal, shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	switch config.Mode() {
	case cli.ModeServe:
		if config.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		api := server.New(server.Config{
			Listen:  config.Listen,
			Metrics: assembler.Collector().Handler(),
		}, useCase)
		if err := api.ListenAndServe(ctx); err != nil {
			logrus.WithError(err).Error("server stopped")
			return 1
		}

	case cli.ModeDashboard:
		dashboard := presenter.NewDashboard(ctx, useCase)
		useCase.RegisterMetricsObserver(dashboard)

		// Run dashboard in TUI mode
		p := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			fmt.Fprintf(stderr, "TUI error: %v\n", err)
			return 1
		}

	default:
		if err := runOnce(ctx, useCase, config, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// runOnce runs one tool and prints its report
func runOnce(ctx context.Context, useCase presenter.Runner, config *cli.Config, stdout io.Writer) error {
	kind, err := entity.ParseTargetKind(config.Tool)
	if err != nil {
		return err
	}

	report, err := useCase.Run(ctx, kind, config.Args.Target)
	if err != nil {
		return err
	}

	if config.JSON {
		out, err := presenter.RenderJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}

	fmt.Fprintln(stdout, presenter.RenderReport(report))
	return nil
}
