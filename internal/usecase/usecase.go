package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/forPelevin/mdlv/internal/domain/project"
	"github.com/forPelevin/mdlv/internal/domain/script"
	"github.com/forPelevin/mdlv/internal/logging"
	"github.com/forPelevin/mdlv/internal/ports"
	"github.com/forPelevin/mdlv/internal/report"
	"github.com/forPelevin/mdlv/internal/types"
)

// ErrUnresolvedReview blocks script generation while review regions remain.
var ErrUnresolvedReview = errors.New("project has unresolved review regions")

type Deps struct {
	Video ports.VideoProber
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	ProjectPath string
	ScriptPath  string

	// Stream fields left at zero are probed from the movie.
	Stream types.StreamInfo

	// Fuzziness above 1 jitters filter boundaries; Seed makes it repeatable.
	Fuzziness float64
	Seed      uint64

	AllowReview bool
	Logger      *slog.Logger
}

type Result struct {
	Summary types.Summary
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := in.Logger
	if log == nil {
		log = logging.Discard()
	}

	d, err := project.ReadFile(in.ProjectPath)
	if err != nil {
		return Result{}, err
	}
	if d.Filters.HasReview() && !in.AllowReview {
		return Result{}, fmt.Errorf("%s: %w", in.ProjectPath, ErrUnresolvedReview)
	}

	movie := MoviePath(in.ProjectPath, d.MoviePath)
	stream, err := u.resolveStream(ctx, movie, in.Stream)
	if err != nil {
		return Result{}, err
	}
	log.Debug("stream resolved", "width", stream.Width, "height", stream.Height, "fps", stream.FPS, "frames", stream.Frames)

	geom := script.Geometry{Width: stream.Width, Height: stream.Height, FPS: stream.FPS}
	var gen script.Generator = script.NewRegular(d.Filters, geom)
	if in.Fuzziness > 1 {
		gen, err = script.NewFuzzy(d.Filters, geom, in.Fuzziness, script.NewRand(in.Seed))
		if err != nil {
			return Result{}, err
		}
	}

	res, err := writeScript(in.ScriptPath, gen)
	if err != nil {
		return Result{}, err
	}
	log.Info("script written", "path", in.ScriptPath, "cuts", len(res.Cuts))

	s := report.Build(in.ProjectPath, d)
	s.Movie = movie
	s.Script = in.ScriptPath
	s.Width, s.Height, s.FPS, s.Frames = stream.Width, stream.Height, stream.FPS, stream.Frames
	s.AffectsAudio = res.AffectsAudio
	if stream.Frames > 0 {
		s.ResultingFrames = res.ResultingFrames(stream.Frames)
	}
	if in.Fuzziness > 1 {
		s.Fuzziness = in.Fuzziness
		s.Seed = in.Seed
	}
	return Result{Summary: s}, nil
}

// MoviePath resolves a movie path stored in a project relative to the
// project file's directory.
func MoviePath(projectPath, moviePath string) string {
	if moviePath == "" || filepath.IsAbs(moviePath) {
		return moviePath
	}
	return filepath.Join(filepath.Dir(projectPath), moviePath)
}

func (u Usecase) resolveStream(ctx context.Context, movie string, override types.StreamInfo) (types.StreamInfo, error) {
	s := override
	if s.Width == 0 || s.Height == 0 || s.FPS == 0 {
		if u.d.Video == nil {
			return types.StreamInfo{}, errors.New("stream geometry is incomplete and no prober is configured")
		}
		probed, err := u.d.Video.ProbeStream(ctx, movie)
		if err != nil {
			return types.StreamInfo{}, err
		}
		if s.Width == 0 {
			s.Width = probed.Width
		}
		if s.Height == 0 {
			s.Height = probed.Height
		}
		if s.FPS == 0 {
			s.FPS = probed.FPS
		}
		if s.Frames == 0 {
			s.Frames = probed.Frames
		}
	}
	if s.Width <= 0 || s.Height <= 0 {
		return types.StreamInfo{}, fmt.Errorf("invalid frame size %dx%d", s.Width, s.Height)
	}
	if s.FPS <= 0 {
		return types.StreamInfo{}, fmt.Errorf("invalid frame rate %v", s.FPS)
	}
	return s, nil
}

func writeScript(path string, gen script.Generator) (script.Result, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return script.Result{}, err
	}
	f, err := os.Create(path)
	if err != nil {
		return script.Result{}, err
	}
	res, err := gen.Generate(f)
	if err != nil {
		f.Close()
		return script.Result{}, err
	}
	if err := f.Close(); err != nil {
		return script.Result{}, err
	}
	return res, nil
}
