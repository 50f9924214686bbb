// Command cfn-ls is a Language Server Protocol server for
// CloudFormation-style templates.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cfnlang/cfn-ls/lsp"
	"github.com/cfnlang/cfn-ls/schema"
)

func main() {
	cmd := &cli.Command{
		Name:  "cfn-ls",
		Usage: "CloudFormation template language server (stdio)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("CFN_LS_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "append logs to this file instead of stderr",
				Sources: cli.EnvVars("CFN_LS_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "schema-dir",
				Usage:   "directory of resource schemas (wire-JSON, one per type)",
				Sources: cli.EnvVars("CFN_LS_SCHEMA_DIR"),
			},
		},
		Action: runServer,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	logger, err := buildLogger(cmd.Bool("debug"), cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	schemas := schema.NewIndex()

	if dir := cmd.String("schema-dir"); dir != "" {
		n, err := lsp.LoadSchemaDir(schemas, dir)
		if err != nil {
			return fmt.Errorf("loading schemas from %s: %w", dir, err)
		}

		logger.Info("Schemas loaded", zap.String("dir", dir), zap.Int("count", n))
	}

	logger.Info("Starting cfn-ls server")

	return run(ctx, logger, schemas, os.Stdin, os.Stdout)
}

// buildLogger logs to stderr by default, using the console encoder when
// stderr is a terminal and JSON otherwise. Stdout carries the LSP
// stream and is never written to.
func buildLogger(debug bool, logFile string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		config = zap.NewDevelopmentConfig()
		config.OutputPaths = []string{"stderr"}
	}

	if logFile != "" {
		config.OutputPaths = []string{logFile}
	}

	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

func run(ctx context.Context, logger *zap.Logger, schemas *schema.Index, in io.Reader, out io.Writer) error {
	// JSON-RPC stream over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Client handle for notifications back to the editor
	client := protocol.ClientDispatcher(conn, logger)

	// Tee logs to the client via window/logMessage so they show up in
	// the editor's LSP log, with the stderr/file core as fallback.
	logger = lsp.NewLSPLogger(client, logger.Core(), logger.Level())

	server := lsp.NewServer(client, logger, schemas, nil)

	conn.Go(ctx, protocol.ServerHandler(server, nil))

	<-conn.Done()

	return conn.Err()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
