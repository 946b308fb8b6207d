package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lkarlslund/camwatch/internal/config"
)

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// Flags are defined in init(), so an error here is a programming bug.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetColor(cmd *cobra.Command, name string) config.Color {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flag error for --%s: not defined", name))
	}
	c, ok := f.Value.(*config.Color)
	if !ok {
		panic(fmt.Sprintf("flag error for --%s: not a color", name))
	}
	return *c
}
