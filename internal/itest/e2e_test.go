//go:build integration

package itest

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/mdlv/internal/pipeline"
)

func TestE2E(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "input.mp4")

	// 10s of test pattern with a tone so the audio cut stage has something to cut.
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "testsrc=size=320x240:rate=25:duration=10",
		"-f", "lavfi",
		"-i", "sine=frequency=440:duration=10",
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		in,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}

	proj := filepath.Join(tmp, "input.mdlv")
	body := "MDLV1\ninput.mp4\n500\n" +
		"1;delogo;0;0;100;20\n" +
		"101;cut;\n" +
		"151;drawbox;10;10;50;50\n" +
		"201;none;\n"
	if err := os.WriteFile(proj, []byte(body), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}

	outDir := filepath.Join(tmp, "out")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summaries, err := pipeline.Run(ctx, pipeline.Config{
		Projects:    []string{proj},
		OutDir:      outDir,
		FFprobePath: "ffprobe",
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	s := summaries[0]
	if s.Width != 320 || s.Height != 240 || s.FPS != 25 {
		t.Fatalf("unexpected probed geometry: %+v", s)
	}
	if s.ResultingFrames != s.Frames-50 {
		t.Fatalf("resulting frames = %d, probed frames = %d", s.ResultingFrames, s.Frames)
	}

	// the generated script must be accepted by ffmpeg as-is
	out := filepath.Join(tmp, "output.mp4")
	render := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", in,
		"-filter_complex_script", s.Script,
		"-map", "[out_v]",
		"-map", "[out_a]",
		"-c:v", "libx264",
		"-c:a", "aac",
		out,
	)
	if b, err := render.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg rejected script: %v\n%s", err, string(b))
	}

	dur, err := probeDurationSeconds(out)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dur-8) > 0.3 {
		t.Fatalf("expected ~8s after cutting 2s, got %.2fs", dur)
	}
}
