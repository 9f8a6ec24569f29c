package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/mdlv/internal/logging"
	"github.com/forPelevin/mdlv/internal/ports"
	"github.com/forPelevin/mdlv/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/mdlv/internal/report"
	"github.com/forPelevin/mdlv/internal/types"
	"github.com/forPelevin/mdlv/internal/usecase"
)

type Config struct {
	Projects []string
	// OutDir receives scripts and summaries. If empty, each project's own
	// directory is used.
	OutDir string

	// Stream overrides the probed geometry for every project.
	Stream types.StreamInfo

	Fuzziness   float64
	Seed        uint64
	AllowReview bool

	// Workers bounds how many projects compile at once. Defaults to 1.
	Workers int

	FFprobePath string
	Logger      *slog.Logger

	// Video replaces the ffprobe adapter; tests use it.
	Video ports.VideoProber
}

func (c Config) Validate() error {
	if len(c.Projects) == 0 {
		return errors.New("no project files given")
	}
	for _, p := range c.Projects {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("stat project: %w", err)
		}
	}
	if c.Fuzziness != 0 && c.Fuzziness < 1 {
		return fmt.Errorf("fuzziness must be 0 (off) or >= 1")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if c.Stream.Width < 0 || c.Stream.Height < 0 || c.Stream.FPS < 0 || c.Stream.Frames < 0 {
		return fmt.Errorf("stream overrides must not be negative")
	}
	return nil
}

// Job is the set of output files for one project.
type Job struct {
	Project string
	Script  string
	Summary string
	Seed    uint64
}

func Run(ctx context.Context, cfg Config) ([]types.Summary, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = logging.WithComponent(log, "pipeline")

	video := cfg.Video
	if video == nil {
		video = ffmpeg.New(cfg.FFprobePath)
	}
	uc := usecase.New(usecase.Deps{Video: video})

	jobs, err := planJobs(cfg.Projects, cfg.OutDir, cfg.Seed)
	if err != nil {
		return nil, err
	}
	log.Info("preparing", "projects", len(jobs))
	for _, j := range jobs {
		if err := os.MkdirAll(filepath.Dir(j.Script), 0o755); err != nil {
			return nil, err
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	summaries := make([]types.Summary, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			plog := logging.WithProject(log, j.Project)
			res, err := uc.Run(gctx, usecase.Input{
				ProjectPath: j.Project,
				ScriptPath:  j.Script,
				Stream:      cfg.Stream,
				Fuzziness:   cfg.Fuzziness,
				Seed:        j.Seed,
				AllowReview: cfg.AllowReview,
				Logger:      plog,
			})
			if err != nil {
				return err
			}
			if err := report.WriteFile(j.Summary, res.Summary); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			plog.Info("summary written", "path", j.Summary, "resulting_frames", res.Summary.ResultingFrames)
			summaries[i] = res.Summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func planJobs(projects []string, outDir string, seed uint64) ([]Job, error) {
	jobs := make([]Job, 0, len(projects))
	seen := map[string]string{}
	for _, p := range projects {
		name := normalizePathSegment(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		if name == "" {
			name = "project"
		}
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(p)
		}
		script := filepath.Join(dir, name+".ffscript")
		if prev, ok := seen[script]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s", prev, p, script)
		}
		seen[script] = p
		jobs = append(jobs, Job{
			Project: p,
			Script:  script,
			Summary: filepath.Join(dir, name+".summary.yaml"),
			Seed:    projectSeed(seed, p),
		})
	}
	return jobs, nil
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// projectSeed gives every project its own jitter sequence that does not depend
// on the order projects were listed in.
func projectSeed(seed uint64, projectPath string) uint64 {
	sum := sha256.Sum256([]byte(filepath.Clean(projectPath)))
	return seed ^ binary.BigEndian.Uint64(sum[:8])
}

// ensure adapters implement ports
var _ ports.VideoProber = (*ffmpeg.Adapter)(nil)
