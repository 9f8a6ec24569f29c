package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/forPelevin/mdlv/internal/types"
)

type Adapter struct {
	ffprobe string
}

func New(ffprobePath string) *Adapter {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffprobe: ffprobePath}
}

func (a *Adapter) ProbeStream(ctx context.Context, moviePath string) (types.StreamInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames:format=duration",
		"-of", "default=noprint_wrappers=1",
		moviePath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.StreamInfo{}, fmt.Errorf("ffprobe stream: %w\n%s", err, string(b))
	}
	return parseProbe(string(b))
}

func parseProbe(out string) (types.StreamInfo, error) {
	kv := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		// format=duration comes after the stream block; keep the first value
		if _, seen := kv[k]; !seen {
			kv[k] = v
		}
	}

	var info types.StreamInfo
	var err error
	if info.Width, err = strconv.Atoi(kv["width"]); err != nil {
		return types.StreamInfo{}, fmt.Errorf("parse width %q: %w", kv["width"], err)
	}
	if info.Height, err = strconv.Atoi(kv["height"]); err != nil {
		return types.StreamInfo{}, fmt.Errorf("parse height %q: %w", kv["height"], err)
	}
	if info.FPS, err = parseRate(kv["r_frame_rate"]); err != nil {
		return types.StreamInfo{}, err
	}

	if n, err := strconv.Atoi(kv["nb_frames"]); err == nil {
		info.Frames = n
	} else if sec, err := strconv.ParseFloat(kv["duration"], 64); err == nil {
		info.Frames = int(math.Round(sec * info.FPS))
	}
	return info, nil
}

// parseRate reads ffprobe rationals such as "30000/1001".
func parseRate(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	if !ok {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("parse frame rate %q: bad denominator", s)
	}
	return n / d, nil
}
