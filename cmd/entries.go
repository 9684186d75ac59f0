package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/dataapi"
)

var (
	// Shared flags of the object commands
	queryPairs  []string
	whereExpr   string
	preset      string
	payloadData string
	payloadFile string
	publishFlag bool
	statusFlag  string
)

// entriesCmd groups the entry commands
var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries of the site",
	Args:  cobra.NoArgs,
	RunE:  runEntriesList,
}

var entriesGetCmd = &cobra.Command{
	Use:   "get <entry-id>",
	Short: "Show a single entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntriesGet,
}

var entriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an entry from a JSON payload",
	Args:  cobra.NoArgs,
	RunE:  runEntriesCreate,
}

var entriesUpdateCmd = &cobra.Command{
	Use:   "update <entry-id>",
	Short: "Update an entry from a JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntriesUpdate,
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>...",
	Short: "Delete one or more entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEntriesDelete,
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesListCmd, entriesGetCmd, entriesCreateCmd, entriesUpdateCmd, entriesDeleteCmd)

	addListFlags(entriesListCmd)
	addStatusFlag(entriesListCmd)
	addQueryFlag(entriesGetCmd)
	addPayloadFlags(entriesCreateCmd)
	addPayloadFlags(entriesUpdateCmd)
}

func addQueryFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&queryPairs, "query", "q", nil, "query parameter as key=value (repeatable)")
}

func addListFlags(cmd *cobra.Command) {
	addQueryFlag(cmd)
	cmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression applied to the returned items")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	cmd.MarkFlagsMutuallyExclusive("where", "preset")
}

func addStatusFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statusFlag, "status", "", "status filter, e.g. Publish or Draft")
}

func addPayloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&payloadData, "data", "", "JSON object describing the object")
	cmd.Flags().StringVar(&payloadFile, "file", "", "read the JSON object from a file")
	cmd.Flags().BoolVar(&publishFlag, "publish", false, "publish after saving")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
}

// listParams parses --query and --status. Draft listings need a session,
// so it signs in when the final params ask for drafts.
func listParams(ctx context.Context) (dataapi.Params, error) {
	params, err := parseQuery(queryPairs)
	if err != nil {
		return nil, err
	}
	if statusFlag != "" {
		params["status"] = statusFlag
	}

	if params.WantsDraft() {
		if err := authenticate(ctx); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func runEntriesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := listParams(ctx)
	if err != nil {
		return err
	}

	logger.Info().Int("site_id", cfg.DataAPI.SiteID).Msg("Listing entries")

	res, err := client.ListEntries(ctx, cfg.DataAPI.SiteID, params)
	if err != nil {
		return err
	}

	res, err = filterResult(ctx, res, cfg.Filter.Presets, whereExpr, preset)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runEntriesGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	params, err := parseQuery(queryPairs)
	if err != nil {
		return err
	}

	res, err := client.GetEntry(cmd.Context(), cfg.DataAPI.SiteID, ids[0], params)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runEntriesCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := readPayload(appFs, payloadData, payloadFile)
	if err != nil {
		return err
	}
	if err := authenticate(ctx); err != nil {
		return err
	}

	res, err := client.CreateEntry(ctx, cfg.DataAPI.SiteID, params, publishFlag)
	if err != nil {
		return err
	}

	logger.Info().Str("id", res.String("id")).Bool("publish", publishFlag).Msg("Entry created")
	return printResult(cmd.OutOrStdout(), res)
}

func runEntriesUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	params, err := readPayload(appFs, payloadData, payloadFile)
	if err != nil {
		return err
	}
	if err := authenticate(ctx); err != nil {
		return err
	}

	res, err := client.UpdateEntry(ctx, cfg.DataAPI.SiteID, ids[0], params, publishFlag)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runEntriesDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	if err := authenticate(ctx); err != nil {
		return err
	}

	site := cfg.DataAPI.SiteID
	results, err := runBatch(ctx, ids, cfg.Publish.Concurrency, func(ctx context.Context, id int) (dataapi.Result, error) {
		return client.DeleteEntry(ctx, site, id)
	})
	printBatch(cmd, ids, results, "Entry deleted")
	return err
}

// printBatch prints the successful results of a batch in input order
func printBatch(cmd *cobra.Command, ids []int, results []dataapi.Result, msg string) {
	for i, res := range results {
		if res == nil {
			continue
		}
		logger.Info().Int("id", ids[i]).Msg(msg)
		if err := printResult(cmd.OutOrStdout(), res); err != nil {
			logger.Warn().Err(err).Int("id", ids[i]).Msg("Failed to print result")
		}
	}
}
