package main

import (
	"github.com/spf13/cobra"

	"github.com/spacesedan/sentiscope/internal/inference"
)

func downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Fetch the configured model into MODEL_DIR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := inference.EnsureModel(cfg.ModelName, cfg.ModelDir)
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}
}
