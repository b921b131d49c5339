package main

import (
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&IndexCommand)
}

// IndexCommand rebuilds the search index from the store, for when the bleve
// directory is lost or the mapping changes.
var IndexCommand = cobra.Command{
	Use:   "index",
	Short: "Index all highlights",
	Long:  "Index all highlights from the store into the search index",
	Run: func(cmd *cobra.Command, args []string) {
		highlights, err := highlightStore.List()
		if err != nil {
			logger.Fatal("error listing highlights:", err)
		}

		for _, highlight := range highlights {
			if err := highlightIndex.Index(&highlight); err != nil {
				logger.Fatal("error indexing highlight ", highlight.ID, ": ", err)
			}
		}

		logger.Printf("%d highlights indexed", len(highlights))
	},
}
