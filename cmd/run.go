package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lfreitas/redator/internal/app"
	"github.com/lfreitas/redator/internal/grader"
	"github.com/lfreitas/redator/internal/identity"
	"github.com/lfreitas/redator/internal/llm"
	"github.com/lfreitas/redator/internal/pipeline"
	"github.com/lfreitas/redator/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, resolves the session identity, builds the
// correction pipeline, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	var g pipeline.Grader
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "New corrections will be unavailable; history still works.")
	} else {
		g = grader.New(provider, grader.DefaultConfig())
	}

	userID := resolveIdentity(ctx)

	ctrl := pipeline.New(g, st.Corrections())
	defer ctrl.Close()

	if err := ctrl.Bind(ctx, userID); err != nil {
		// The standing banner reports it; submissions still work.
		fmt.Fprintln(os.Stderr, "history subscription:", err)
	}

	return app.Run(ctrl, userLabel(userID))
}

// openStore resolves the database path and application namespace and
// opens the store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	appID := os.Getenv("REDATOR_APP_ID")
	st, err := store.Open(dbPath, appID)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// resolveIdentity binds the session identity from the environment:
// REDATOR_AUTH_URL selects the identity service, REDATOR_AUTH_TOKEN
// carries an optional pre-issued credential. Without a service the
// binder falls straight through to the local identifier.
func resolveIdentity(ctx context.Context) string {
	var provider identity.Provider
	if authURL := os.Getenv("REDATOR_AUTH_URL"); authURL != "" {
		appID := os.Getenv("REDATOR_APP_ID")
		if appID == "" {
			appID = store.DefaultAppID
		}
		provider = identity.NewHTTPProvider(authURL, appID)
	}

	binder := identity.NewBinder(provider, os.Getenv("REDATOR_AUTH_TOKEN"))
	userID, err := binder.Resolve(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "identity service unavailable, using a local session:", err)
	}
	return userID
}

// userLabel shortens the identifier for the header.
func userLabel(userID string) string {
	if len(userID) > 14 {
		return userID[:14] + "…"
	}
	return userID
}
