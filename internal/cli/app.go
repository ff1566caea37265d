// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring shared by every command: config, logger, store.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/chatnotes/internal/config"
	"github.com/jeranaias/chatnotes/internal/export"
	"github.com/jeranaias/chatnotes/internal/logging"
	"github.com/jeranaias/chatnotes/internal/model"
	"github.com/jeranaias/chatnotes/internal/session"
	"github.com/jeranaias/chatnotes/internal/storage"
)

// =============================================================================
// APP
// =============================================================================

// App holds the per-process state behind the command tree. The store and
// its backend are opened on first use so config commands never touch storage.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	out         io.Writer
	errOut      io.Writer
	in          io.Reader
	interactive bool

	exporter  export.Exporter
	store     *session.Store
	kv        storage.KV
	logCloser io.Closer
}

// globalOptions are the persistent root flags.
type globalOptions struct {
	configPath  string
	backend     string
	storagePath string
	logLevel    string
	noColor     bool
}

// newApp loads configuration and applies flag overrides.
func newApp(opts globalOptions, in io.Reader, out, errOut io.Writer, interactive bool) (*App, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if opts.backend != "" && opts.backend != cfg.Storage.Backend {
		cfg.Storage.Backend = opts.backend
		cfg.Storage.Path = ""
	}
	if opts.storagePath != "" {
		cfg.Storage.Path = opts.storagePath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.SetDefaults(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}

	app := &App{
		Config:      cfg,
		out:         out,
		errOut:      errOut,
		in:          in,
		interactive: interactive,
	}

	if cfg.Log.File != "" {
		app.Log, app.logCloser, err = logging.Open(cfg.Log)
		if err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("open log file: %w", err)}
		}
	} else {
		app.Log = logging.New(cfg.Log, errOut)
	}

	return app, nil
}

// ExportOptions returns the delivery options from config.
func (a *App) ExportOptions() *export.Options {
	// Location was validated with the config.
	loc, _ := a.Config.Export.Location()
	return &export.Options{
		OutputDir:       a.Config.Export.OutputDir,
		OpenAfterExport: a.Config.Export.OpenAfterExport,
		Location:        loc,
	}
}

// UseExporter selects the exporter for the store. It must be called before
// the first Store call.
func (a *App) UseExporter(exp export.Exporter) {
	a.exporter = exp
}

// Store opens the backend and returns the initialized store.
func (a *App) Store() (*session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	kv, err := storage.Open(a.Config.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", a.Config.Storage.Backend, err)
	}
	a.kv = kv

	gw := storage.NewGateway(kv,
		storage.WithKey(a.Config.Storage.Key),
		storage.WithTimeout(a.Config.Storage.Timeout()),
		storage.WithLogger(a.Log.With().Str("component", "storage").Str("backend", a.Config.Storage.Backend).Logger()),
	)

	exp := a.exporter
	if exp == nil {
		exp = export.NewMarkdownExporter(a.ExportOptions())
	}

	a.store = session.NewStore(gw,
		session.WithNotifier(&noticePrinter{w: a.errOut}),
		session.WithExporter(exp),
		session.WithLogger(a.Log.With().Str("component", "session").Logger()),
	)
	a.store.Initialize()
	return a.store, nil
}

// Close releases the backend and log file. Later calls do nothing.
func (a *App) Close() error {
	var firstErr error
	if a.kv != nil {
		firstErr = a.kv.Close()
		a.kv = nil
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.logCloser = nil
	}
	return firstErr
}

// =============================================================================
// NOTICES
// =============================================================================

var _ session.Notifier = (*noticePrinter)(nil)

// noticePrinter shows store notices as styled lines.
type noticePrinter struct {
	w io.Writer
}

// Notify implements session.Notifier.
func (p *noticePrinter) Notify(n session.Notice) {
	fmt.Fprintf(p.w, "%s %s\n", noticeStyle(n.Kind).Render(n.Title), DimStyle.Render(n.Description))
}

// =============================================================================
// CONVERSATION LOOKUP
// =============================================================================

// resolveID maps a user argument to a conversation id. It accepts a 1-based
// list index, a full id, or a unique id prefix.
func resolveID(store *session.Store, arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", false
	}
	convs := store.ListConversations()

	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(convs) {
		return convs[n-1].ID, true
	}

	var match string
	for _, conv := range convs {
		if conv.ID == arg {
			return conv.ID, true
		}
		if strings.HasPrefix(conv.ID, arg) {
			if match != "" {
				return "", false
			}
			match = conv.ID
		}
	}
	return match, match != ""
}

// conversationOrActive resolves arg, or the active conversation when arg is empty.
func conversationOrActive(store *session.Store, arg string) (*model.Conversation, error) {
	if arg == "" {
		conv := store.ActiveConversation()
		if conv == nil {
			return nil, ErrNotFound("conversation", "(none active)")
		}
		return conv, nil
	}

	id, ok := resolveID(store, arg)
	if !ok {
		return nil, ErrNotFound("conversation", arg)
	}
	conv, _ := store.Conversation(id)
	return conv, nil
}

// shortID abbreviates an id for tables.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
