package lsp

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// lspLogCore is a zapcore.Core that sends logs to the LSP client via
// window/logMessage, so they appear in the editor's LSP log viewer.
type lspLogCore struct {
	client    protocol.Client
	level     zapcore.Level
	encoder   zapcore.Encoder
	fields    []zapcore.Field
	mu        sync.Mutex
	ctx       context.Context
	cancelCtx context.CancelFunc

	// logQueue ensures async, non-blocking log delivery
	logQueue chan logEntry
}

type logEntry struct {
	level   protocol.MessageType
	message string
}

// NewLSPLogger creates a logger that sends logs via LSP
// window/logMessage notifications. It also logs to the provided
// fallback core (typically stderr) for debugging.
func NewLSPLogger(client protocol.Client, fallbackCore zapcore.Core, level zapcore.Level) *zap.Logger {
	ctx, cancel := context.WithCancel(context.Background())

	lspCore := &lspLogCore{
		client: client,
		level:  level,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "", // level travels as the MessageType
			TimeKey:        "", // the client timestamps entries itself
			NameKey:        "logger",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}),
		ctx:       ctx,
		cancelCtx: cancel,
		logQueue:  make(chan logEntry, 100), // buffer for burst handling
	}

	go lspCore.logSender()

	tee := zapcore.NewTee(lspCore, fallbackCore)

	return zap.New(tee)
}

// logSender drains the queue and forwards entries to the client.
func (c *lspLogCore) logSender() {
	for {
		select {
		case entry := <-c.logQueue:
			// Ignore errors; the client may have disconnected.
			_ = c.client.LogMessage(c.ctx, &protocol.LogMessageParams{
				Type:    entry.level,
				Message: entry.message,
			})
		case <-c.ctx.Done():
			return
		}
	}
}

// Close stops the log sender goroutine.
func (c *lspLogCore) Close() {
	c.cancelCtx()
}

// Enabled implements zapcore.Core.
func (c *lspLogCore) Enabled(level zapcore.Level) bool {
	return level >= c.level
}

// With implements zapcore.Core.
func (c *lspLogCore) With(fields []zapcore.Field) zapcore.Core {
	return &lspLogCore{
		client:    c.client,
		level:     c.level,
		encoder:   c.encoder.Clone(),
		fields:    append(c.fields, fields...),
		ctx:       c.ctx,
		cancelCtx: c.cancelCtx,
		logQueue:  c.logQueue,
	}
}

// Check implements zapcore.Core.
func (c *lspLogCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

// Write implements zapcore.Core.
func (c *lspLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := c.encoder.EncodeEntry(entry, append(c.fields, fields...))
	if err != nil {
		return err
	}

	message := strings.TrimSpace(buf.String())
	buf.Free()

	var msgType protocol.MessageType

	switch entry.Level {
	case zapcore.DebugLevel:
		msgType = protocol.MessageTypeLog
	case zapcore.InfoLevel:
		msgType = protocol.MessageTypeInfo
	case zapcore.WarnLevel:
		msgType = protocol.MessageTypeWarning
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		msgType = protocol.MessageTypeError
	default:
		msgType = protocol.MessageTypeInfo
	}

	// Queue the entry without blocking; drop when the queue is full.
	select {
	case c.logQueue <- logEntry{level: msgType, message: message}:
	default:
	}

	return nil
}

// Sync implements zapcore.Core.
func (c *lspLogCore) Sync() error {
	return nil
}
