package commands

import (
	"fmt"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/registry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newListCmd(state *cliState) *cobra.Command {
	var (
		page    int
		query   string
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Fetch one page of a list",
		Long: `Fetch one page of a list with the same URL state the dashboard uses and
print {url, items, totalItems, totalPages, currentPage, stats} as JSON.
A page past the end is reconciled to the last page, as in the dashboard.`,
		Example: `  brrctl list leads --filter status=NEW --filter status=CONTACTED
  brrctl list residences --query marina --page 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := registry.Find(state.listers, args[0])
			if !ok {
				return fmt.Errorf("unknown resource %q (see 'brrctl resources')", args[0])
			}

			p, err := buildPartial(l.FilterKeys(), page, cmd.Flags().Changed("query"), query, filters)
			if err != nil {
				return err
			}

			ctx, err := state.context(cmd.Context())
			if err != nil {
				return err
			}

			notifier := listquery.NotifierFunc(func(message string) {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", message)
			})
			snap, err := l.Query(ctx, p, notifier)
			if snap.URL == "" {
				if err != nil {
					return fmt.Errorf("error fetching %s: %w", l.Name(), err)
				}
				return fmt.Errorf("error fetching %s", l.Name())
			}

			prettyJSON, mErr := json.MarshalIndent(snap, "", "  ")
			if mErr != nil {
				return fmt.Errorf("error formatting response: %w", mErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))

			if err != nil {
				return fmt.Errorf("error fetching %s: %w", l.Name(), err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number (default 1)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text search")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as key=value (repeatable; repeat a key to select several values)")
	return cmd
}

// buildPartial turns list flags into a URL state change. An empty value
// (key=) clears that filter.
func buildPartial(keys []string, page int, setQuery bool, query string, filters []string) (listquery.Partial, error) {
	if page < 0 {
		return listquery.Partial{}, fmt.Errorf("invalid --page %d: must be positive", page)
	}

	p := listquery.Partial{Page: page}
	if setQuery {
		p.Query = listquery.String(query)
	}

	for _, raw := range filters {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return listquery.Partial{}, fmt.Errorf("invalid --filter %q: want key=value", raw)
		}
		if !slices.Contains(keys, key) {
			return listquery.Partial{}, fmt.Errorf("unknown filter %q (valid: %s)", key, strings.Join(keys, ", "))
		}
		if p.Filters == nil {
			p.Filters = make(map[string][]string)
		}
		values := p.Filters[key]
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
		if values == nil {
			values = []string{}
		}
		p.Filters[key] = values
	}
	return p, nil
}
