package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/dataapi"
)

var (
	contentTypeID int
	fieldNames    []string
)

// contentDataCmd groups the content data commands
var contentDataCmd = &cobra.Command{
	Use:     "content-data",
	Aliases: []string{"cd"},
	Short:   "Manage content data of a content type",
}

var contentDataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content data",
	Args:  cobra.NoArgs,
	RunE:  runContentDataList,
}

var contentDataGetCmd = &cobra.Command{
	Use:   "get <content-data-id>",
	Short: "Show a single content data object",
	Args:  cobra.ExactArgs(1),
	RunE:  runContentDataGet,
}

var contentDataCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create content data from a JSON payload",
	Args:  cobra.NoArgs,
	RunE:  runContentDataCreate,
}

var contentDataUpdateCmd = &cobra.Command{
	Use:   "update <content-data-id>",
	Short: "Update content data from a JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runContentDataUpdate,
}

var contentDataDeleteCmd = &cobra.Command{
	Use:   "delete <content-data-id>...",
	Short: "Delete one or more content data objects",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runContentDataDelete,
}

func init() {
	rootCmd.AddCommand(contentDataCmd)
	contentDataCmd.AddCommand(contentDataListCmd, contentDataGetCmd, contentDataCreateCmd, contentDataUpdateCmd, contentDataDeleteCmd)

	contentDataCmd.PersistentFlags().IntVarP(&contentTypeID, "content-type", "t", 0, "content type id")
	_ = contentDataCmd.MarkPersistentFlagRequired("content-type")

	addListFlags(contentDataListCmd)
	addStatusFlag(contentDataListCmd)
	contentDataListCmd.Flags().StringSliceVar(&fieldNames, "fields", nil, "limit the returned fields")
	addQueryFlag(contentDataGetCmd)
	contentDataGetCmd.Flags().StringSliceVar(&fieldNames, "fields", nil, "limit the returned fields")
	addPayloadFlags(contentDataCreateCmd)
	addPayloadFlags(contentDataUpdateCmd)
}

func runContentDataList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := listParams(ctx)
	if err != nil {
		return err
	}

	res, err := client.ListContentData(ctx, cfg.DataAPI.SiteID, contentTypeID, params, fieldNames...)
	if err != nil {
		return err
	}

	res, err = filterResult(ctx, res, cfg.Filter.Presets, whereExpr, preset)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runContentDataGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	params, err := parseQuery(queryPairs)
	if err != nil {
		return err
	}

	res, err := client.GetContentData(cmd.Context(), cfg.DataAPI.SiteID, contentTypeID, ids[0], params, fieldNames...)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runContentDataCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params, err := readPayload(appFs, payloadData, payloadFile)
	if err != nil {
		return err
	}
	if err := authenticate(ctx); err != nil {
		return err
	}

	res, err := client.CreateContentData(ctx, cfg.DataAPI.SiteID, contentTypeID, params, publishFlag)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runContentDataUpdate(cmd *cobra.Command, args []string) error {
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

	res, err := client.UpdateContentData(ctx, cfg.DataAPI.SiteID, contentTypeID, ids[0], params, publishFlag)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runContentDataDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	if err := authenticate(ctx); err != nil {
		return err
	}

	site, contentType := cfg.DataAPI.SiteID, contentTypeID
	results, err := runBatch(ctx, ids, cfg.Publish.Concurrency, func(ctx context.Context, id int) (dataapi.Result, error) {
		return client.DeleteContentData(ctx, site, contentType, id)
	})
	printBatch(cmd, ids, results, "Content data deleted")
	return err
}
