package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/forPelevin/mdlv/internal/logging"
	"github.com/forPelevin/mdlv/internal/pipeline"
	"github.com/forPelevin/mdlv/internal/types"
	"github.com/spf13/cobra"
)

func newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <project>...",
		Short: "Compile projects into ffmpeg filter_complex scripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args)
		},
	}

	cmd.Flags().String("out", "", "Output directory (default: next to each project)")
	cmd.Flags().Float64("fuzzy", 0, "Boundary jitter; values above 1 enable it")
	cmd.Flags().Uint64("seed", 1, "Seed for --fuzzy")
	cmd.Flags().Bool("allow-review", false, "Compile even if review regions remain")
	cmd.Flags().Int("workers", 0, "Projects compiled in parallel (default $"+EnvWorkers+" or 4)")

	// Stream overrides skip ffprobe when width, height and fps are all set
	cmd.Flags().Int("width", 0, "Frame width override")
	cmd.Flags().Int("height", 0, "Frame height override")
	cmd.Flags().Float64("fps", 0, "Frame rate override")
	cmd.Flags().Int("frames", 0, "Frame count override")
	return cmd
}

func runScript(cmd *cobra.Command, projects []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	fuzzy, _ := cmd.Flags().GetFloat64("fuzzy")
	seed, _ := cmd.Flags().GetUint64("seed")
	allowReview, _ := cmd.Flags().GetBool("allow-review")
	workers, _ := cmd.Flags().GetInt("workers")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	fps, _ := cmd.Flags().GetFloat64("fps")
	frames, _ := cmd.Flags().GetInt("frames")

	if workers == 0 {
		n, err := strconv.Atoi(getenvDefault(EnvWorkers, "4"))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		workers = n
	}

	logger := logging.NewLogger(cmd.ErrOrStderr(), getenvDefault(EnvLogLevel, "info"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := pipeline.Config{
		Projects:    projects,
		OutDir:      outDir,
		Stream:      types.StreamInfo{Width: width, Height: height, FPS: fps, Frames: frames},
		Fuzziness:   fuzzy,
		Seed:        seed,
		AllowReview: allowReview,
		Workers:     workers,
		FFprobePath: getenvDefault(EnvFFprobe, "ffprobe"),
		Logger:      logger,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	summaries, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d frames", s.Project, s.Script, s.ResultingFrames)
		if s.AffectsAudio {
			fmt.Fprint(cmd.OutOrStdout(), ", audio cut")
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
	}
	return nil
}
