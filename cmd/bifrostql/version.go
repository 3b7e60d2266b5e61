package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bifrostql build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bifrostql %s (%s)\n", version, commit)
		},
	}
}
