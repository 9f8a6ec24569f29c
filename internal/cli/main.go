package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	EnvFFprobe  = "MDLV_FFPROBE"
	EnvLogLevel = "MDLV_LOG_LEVEL"
	EnvWorkers  = "MDLV_WORKERS"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mdlv",
		Short:         "Edit delogo/cut timelines and compile them to ffmpeg filter scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newInitCmd(),
		newShowCmd(),
		newAtCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newMoveCmd(),
		newConvertCmd(),
		newScriptCmd(),
	)
	return root
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
