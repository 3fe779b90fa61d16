package cmd

import (
	"github.com/spf13/cobra"

	"github.com/skylark-social/skylark/internal/build"
)

func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "skylark",
		Short:   "The read-serving core of a federated social appview",
		Long:    `Skylark serves profile, graph, and listing reads for a federated social network: batched relationship resolution, authorization-aware view assembly, and keyset-paginated listings over an indexed datastore.`,
		Version: build.Version,
	}
}
