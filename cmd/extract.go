package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Recognize the text of an image or PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		up, err := readUpload(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, cleanup, err := buildService(ctx, cfg, st, log, wireOptions{offline: true, needRecognizer: true})
		defer cleanup()
		if err != nil {
			return err
		}

		job, err := svc.Extract(ctx, up.MimeType, up.Data)
		if err != nil {
			return fmt.Errorf("extract %s: %w", args[0], err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(job)
		}
		fmt.Println(job.ResultText)
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("json", false, "Print the recognition job as JSON")
}
