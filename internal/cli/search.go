package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeafMist/livewise-insights/internal/dashboard"
	"github.com/DeafMist/livewise-insights/internal/provider"
	"github.com/DeafMist/livewise-insights/internal/render"
)

func (a *app) searchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <city>",
		Short: "Fetch and print insights for a city",
		Example: `  livewise search Kingston
  livewise search "New York" --json
  LIVEWISE_PROVIDER_URL=http://api:3001 livewise search Tokyo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			state, err := svc.Search(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, dashboard.ErrEmptySearchTerm) {
				return errors.New("please enter a search term")
			}
			if rerr := a.print(state, asJSON); rerr != nil {
				return rerr
			}
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard state as JSON")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var q, data string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Render the q and data parameters of a dashboard URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			state, err := svc.Navigate(cmd.Context(), q, data)
			if rerr := a.print(state, asJSON); rerr != nil {
				return rerr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&q, "q", "", "search term")
	cmd.Flags().StringVar(&data, "data", "", "URL-encoded insights JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard state as JSON")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (a *app) service() (*dashboard.Service, error) {
	scope, err := dashboard.ParseErrorScope(a.v.GetString(keyErrorScope))
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", keyErrorScope, err)
	}

	timeout := a.v.GetDuration(keyTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("--%s must be positive", keyTimeout)
	}

	client := provider.New(a.v.GetString(keyProviderURL), timeout, a.log)
	store := dashboard.NewStore(dashboard.WithErrorScope(scope))
	return dashboard.NewService(store, client, "", a.log), nil
}

func (a *app) print(state dashboard.State, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}
	return render.Insights(a.out, state.Title, state.Cards)
}
