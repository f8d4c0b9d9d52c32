// Package main provides the CLI entry point for reviewpilot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reviewpilot/reviewpilot/internal/config"
	"github.com/reviewpilot/reviewpilot/internal/domain"
	"github.com/reviewpilot/reviewpilot/internal/engine"
	"github.com/reviewpilot/reviewpilot/internal/gh"
	"github.com/reviewpilot/reviewpilot/internal/git"
	"github.com/reviewpilot/reviewpilot/internal/logging"
	"github.com/reviewpilot/reviewpilot/internal/runner"
)

var (
	repo             string
	prNumber         int
	engineCommand    string
	model            string
	maxDiffBytes     int
	postSummary      bool
	instructions     string
	instructionsFile string
	logLevel         string
	workDir          string
	noConfig         bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "reviewpilot",
		Short: "Automated pull request reviewer",
		Long: `Run an automated review of a pull request: fetch the PR conversation,
build the diff, hand both to a reasoning engine, and post its findings
back as inline review comments plus a summary.

Exit codes:
  0 - Review completed (including soft failures)
  2 - Error
  130 - Interrupted`,
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Defaults are resolved via config.Resolve with precedence:
	// flag > env > config file > default.
	rootCmd.Flags().StringVar(&repo, "repo", "",
		"Repository in owner/name form (env: GITHUB_REPOSITORY)")
	rootCmd.Flags().IntVar(&prNumber, "pr", 0,
		"Pull request number to review (env: REVIEWPILOT_PR)")
	rootCmd.Flags().StringVarP(&engineCommand, "engine", "e", "",
		"Review engine command (default: claude, env: REVIEWPILOT_ENGINE)")
	rootCmd.Flags().StringVarP(&model, "model", "m", "",
		"Model passed to the engine via --model (env: REVIEWPILOT_MODEL)")
	rootCmd.Flags().IntVar(&maxDiffBytes, "max-diff-bytes", 0,
		"Diff byte ceiling, 0 disables truncation (default: 100000, env: REVIEWPILOT_MAX_DIFF_BYTES)")
	rootCmd.Flags().BoolVar(&postSummary, "post-summary", true,
		"Post the aggregate summary comment (default: true, env: REVIEWPILOT_POST_SUMMARY)")
	rootCmd.Flags().StringVar(&instructions, "instructions", "",
		"Custom review instructions appended to the prompt (env: REVIEWPILOT_INSTRUCTIONS)")
	rootCmd.Flags().StringVar(&instructionsFile, "instructions-file", "",
		"Path to a file with custom review instructions (env: REVIEWPILOT_INSTRUCTIONS_FILE)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default: info, env: REVIEWPILOT_LOG_LEVEL)")
	rootCmd.Flags().StringVarP(&workDir, "workdir", "C", ".",
		"Checkout directory of the repository under review")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .reviewpilot.yaml config file")

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return domain.ExitSuccess.Int()
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "interrupted, shutting down...")
		cancel()
	}()

	envState, err := config.LoadEnvState(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(domain.ExitError)
	}

	fileCfg := &config.FileConfig{}
	var warnings []string
	if !noConfig {
		result, err := config.LoadFile(workDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			return exitCode(domain.ExitError)
		}
		fileCfg = result.Config
		warnings = result.Warnings
	}

	flagState := config.FlagState{
		RepoSet:             cmd.Flags().Changed("repo"),
		PRNumberSet:         cmd.Flags().Changed("pr"),
		EngineSet:           cmd.Flags().Changed("engine"),
		ModelSet:            cmd.Flags().Changed("model"),
		MaxDiffBytesSet:     cmd.Flags().Changed("max-diff-bytes"),
		PostSummarySet:      cmd.Flags().Changed("post-summary"),
		InstructionsSet:     cmd.Flags().Changed("instructions"),
		InstructionsFileSet: cmd.Flags().Changed("instructions-file"),
		LogLevelSet:         cmd.Flags().Changed("log-level"),
	}
	flagValues := config.ResolvedConfig{
		Repo:             repo,
		PRNumber:         prNumber,
		Engine:           engineCommand,
		Model:            model,
		MaxDiffBytes:     maxDiffBytes,
		PostSummary:      postSummary,
		Instructions:     instructions,
		InstructionsFile: instructionsFile,
		LogLevel:         logLevel,
	}

	resolved := config.Resolve(fileCfg, envState, flagState, flagValues)

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(resolved.LogLevel))

	for _, warning := range warnings {
		logger.Warn(warning)
	}

	if err := config.ValidateResolved(resolved); err != nil {
		logger.Error(err.Error())
		return exitCode(domain.ExitError)
	}

	resolvedInstructions, err := config.ResolveInstructions(fileCfg, envState, flagState, flagValues)
	if err != nil {
		logger.Error(err.Error())
		return exitCode(domain.ExitError)
	}

	client := gh.NewClient(resolved.Token)
	eng := &engine.Runner{
		Command: resolved.Engine,
		Model:   resolved.Model,
		WorkDir: workDir,
	}

	pipeline := runner.New(runner.Config{
		Repo:               resolved.Repo,
		PRNumber:           resolved.PRNumber,
		WorkDir:            workDir,
		MaxDiffBytes:       resolved.MaxDiffBytes,
		PostSummary:        resolved.PostSummary,
		CustomInstructions: resolvedInstructions,
		Version:            version,
	}, client, git.BuildDiff, eng, client, logger)

	code := pipeline.Run(ctx)
	if ctx.Err() != nil {
		return exitCode(domain.ExitInterrupted)
	}
	return exitCode(code)
}
