package lsp_test

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/cfnlang/cfn-ls/lsp"
)

func TestLSPLoggerForwardsToClient(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	logger := lsp.NewLSPLogger(client, zapcore.NewNopCore(), zapcore.InfoLevel)

	logger.Info("schema store ready")

	// Delivery runs through an async queue, so poll briefly.
	deadline := time.After(2 * time.Second)
	for {
		for _, msg := range client.Messages() {
			if strings.Contains(msg, "schema store ready") {
				return
			}
		}

		select {
		case <-deadline:
			t.Fatalf("messages = %v, want entry forwarded via window/logMessage", client.Messages())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestLSPLoggerHonorsLevel(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	logger := lsp.NewLSPLogger(client, zapcore.NewNopCore(), zapcore.WarnLevel)

	logger.Info("below threshold")
	logger.Warn("above threshold")

	deadline := time.After(2 * time.Second)
	for {
		msgs := client.Messages()
		for _, msg := range msgs {
			if strings.Contains(msg, "below threshold") {
				t.Fatalf("messages = %v, want info entries filtered at warn level", msgs)
			}
			if strings.Contains(msg, "above threshold") {
				return
			}
		}

		select {
		case <-deadline:
			t.Fatalf("messages = %v, want warn entry forwarded", msgs)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
