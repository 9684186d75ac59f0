package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/dataapi"
)

// searchCmd runs a site search
var searchCmd = &cobra.Command{
	Use:   "search [terms]",
	Short: "Search published content",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

// publishCmd publishes templates
var publishCmd = &cobra.Command{
	Use:   "publish <template-id>...",
	Short: "Publish one or more templates of the site",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(searchCmd, publishCmd)
	addListFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := parseQuery(queryPairs)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		params["search"] = args[0]
	}

	res, err := client.Search(ctx, params)
	if err != nil {
		return err
	}

	res, err = filterResult(ctx, res, cfg.Filter.Presets, whereExpr, preset)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	if err := authenticate(ctx); err != nil {
		return err
	}

	logger.Info().
		Ints("templates", ids).
		Int("concurrency", cfg.Publish.Concurrency).
		Msg("Publishing templates")

	site := cfg.DataAPI.SiteID
	results, err := runBatch(ctx, ids, cfg.Publish.Concurrency, func(ctx context.Context, id int) (dataapi.Result, error) {
		return client.Publish(ctx, site, id)
	})
	printBatch(cmd, ids, results, "Template published")
	return err
}
