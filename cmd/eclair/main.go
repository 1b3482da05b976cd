package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/danhper/eclair/internal/builtins"
	"github.com/danhper/eclair/internal/config"
	"github.com/danhper/eclair/internal/interp"
	"github.com/danhper/eclair/internal/logging"
	"github.com/danhper/eclair/internal/repl"
	"github.com/danhper/eclair/internal/session"
	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
)

var rpcURL string

var rootCmd = &cobra.Command{
	Use:   "eclair [file]",
	Short: "Interactive interpreter for a Solidity-like expression language",
	Long: `Eclair evaluates a Solidity-flavored expression language against a
live or forked EVM node: call contracts, send transactions, decode logs,
and script a REPL session the way you would a cast/foundry console.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&rpcURL, "rpc-url", "", "initial RPC endpoint (overrides ETH_RPC_URL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logging.New()

	projectRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sess := session.New(log)
	registry := builtins.NewRegistry()

	ctx := context.Background()

	endpoint := cfg.InitialRPC
	if rpcURL != "" {
		endpoint = rpcURL
	}
	if endpoint != "" {
		if err := sess.SetRPC(ctx, cfg.ResolveRPCAlias(endpoint)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to connect to %s: %v\n", endpoint, err)
		}
	}

	if err := autoloadArtifacts(sess, projectRoot); err != nil {
		fmt.Fprintf(os.Stderr, "warning: project autoload failed: %v\n", err)
	}

	if len(args) == 0 {
		r, err := repl.New(log)
		if err != nil {
			return fmt.Errorf("start REPL: %w", err)
		}
		defer r.Close()
		ev := interp.New(registry, sess, log, os.Stdout, os.Stderr, r.History, cfg.ResolveRPCAlias)
		runStartupScript(ev, ctx, projectRoot, log)
		return r.Run(ctx, ev)
	}

	ev := interp.New(registry, sess, log, os.Stdout, os.Stderr, nil, cfg.ResolveRPCAlias)
	runStartupScript(ev, ctx, projectRoot, log)

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	if _, err := ev.EvalSource(ctx, string(src)); err != nil {
		printEvalError(err)
		return err
	}
	return nil
}

// autoloadArtifacts implements spec §6.5: every compiled contract under a
// recognized build-tool output directory is registered by name.
func autoloadArtifacts(sess *session.Session, projectRoot string) error {
	artifacts, err := config.DiscoverArtifacts(projectRoot)
	if err != nil {
		return err
	}
	for name, raw := range artifacts {
		parsed, err := abi.ParseJSON(raw)
		if err != nil {
			continue
		}
		sess.ABIs.Register(name, common.Address{}, parsed)
	}
	return nil
}

// runStartupScript implements spec §6.4: .eclair_init.sol is evaluated in
// the root Environment, then its setUp() is invoked if defined, so its
// declarations persist as top-level bindings for the rest of the run.
func runStartupScript(ev *interp.Evaluator, ctx context.Context, projectRoot string, log *logging.Logger) {
	path, ok := config.FindStartupScript(projectRoot)
	if !ok {
		return
	}
	src, err := os.ReadFile(path)
	if err != nil {
		log.Warn("failed to read startup script", "path", path, "error", err)
		return
	}
	if _, err := ev.EvalSource(ctx, string(src)); err != nil {
		log.Warn("startup script failed", "path", path, "error", err)
		return
	}
	if _, err := ev.EvalSource(ctx, "setUp()"); err != nil {
		if nameErr, ok := err.(*values.Error); !ok || nameErr.Kind != values.ErrName {
			log.Warn("setUp() failed", "path", path, "error", err)
		}
	}
}

func printEvalError(err error) {
	if everr, ok := err.(*values.Error); ok {
		fmt.Fprintf(os.Stderr, "%s: %s\n", everr.Kind, everr.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
