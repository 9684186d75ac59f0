package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/dataapi"
)

var (
	uploadPath    string
	overwriteOnce bool
	autoRename    bool
)

// uploadCmd uploads an asset
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a local file as an asset of the site",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadPath, "path", "", "destination path relative to the site root")
	uploadCmd.Flags().BoolVar(&overwriteOnce, "overwrite-once", false, "overwrite an existing asset with the same name")
	uploadCmd.Flags().BoolVar(&autoRename, "auto-rename", false, "rename the upload when the name is taken")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	params := dataapi.Params{
		"site_id": cfg.DataAPI.SiteID,
		"file":    args[0],
	}
	if uploadPath != "" {
		params["path"] = uploadPath
	}
	if cmd.Flags().Changed("auto-rename") {
		params["autoRenameIfExists"] = autoRename
	}

	if err := authenticate(ctx); err != nil {
		return err
	}

	res, err := client.UploadFile(ctx, params, overwriteOnce)
	if err != nil {
		return err
	}

	logger.Info().Str("file", args[0]).Msg("Asset uploaded")
	return printResult(cmd.OutOrStdout(), res)
}
