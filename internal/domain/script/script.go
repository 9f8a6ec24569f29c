// Package script compiles a filter timeline into an ffmpeg filter_complex
// script. Filter ranges become enable expressions on the [0:v] chain; cut
// ranges are removed at the end of the chain with select/setpts and mirrored
// on [0:a] with aselect/asetpts.
package script

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/forPelevin/mdlv/internal/domain/filters"
	"github.com/forPelevin/mdlv/internal/domain/timeline"
)

// Geometry describes the input video stream.
type Geometry struct {
	Width  int
	Height int
	FPS    float64
}

// Cut is a removed frame range, 0-based with an exclusive End. An unbounded cut
// runs to the end of the stream.
type Cut struct {
	Start   int
	End     int
	Bounded bool
}

// Frames is the number of frames the cut removes from a stream of the given length.
func (c Cut) Frames(original int) int {
	end := original
	if c.Bounded {
		end = c.End
	}
	return max(end-c.Start, 0)
}

// Result describes a generated script.
type Result struct {
	Cuts         []Cut
	AffectsAudio bool
}

// ResultingFrames is the frame count left after all cuts are applied.
func (r Result) ResultingFrames(original int) int {
	n := original
	for _, c := range r.Cuts {
		n -= c.Frames(original)
	}
	return n
}

type Generator interface {
	Generate(w io.Writer) (Result, error)
	AffectsAudio() bool
}

// span is the 0-based frame range a filter is enabled for; end is exclusive.
type span struct {
	start   int
	end     int
	bounded bool
}

type spanFunc func(entries []timeline.Entry, i int) span

func exactSpan(entries []timeline.Entry, i int) span {
	s := span{start: entries[i].Start - 1}
	if i+1 < len(entries) {
		s.end = entries[i+1].Start - 1
		s.bounded = true
	}
	return s
}

func (s span) expr(variable string, format func(int) string) string {
	if s.bounded {
		return fmt.Sprintf("between(%s,%s,%s)", variable, format(s.start), format(s.end-1))
	}
	return fmt.Sprintf("gte(%s,%s)", variable, format(s.start))
}

func frameNumber(n int) string { return strconv.Itoa(n) }

// Regular emits frame-exact filter ranges.
type Regular struct {
	list *timeline.List
	geom Geometry
}

func NewRegular(l *timeline.List, g Geometry) *Regular {
	return &Regular{list: l, geom: g}
}

func (g *Regular) AffectsAudio() bool { return g.list.AffectsAudio() }

func (g *Regular) Generate(w io.Writer) (Result, error) {
	return compile(w, g.list, g.geom, exactSpan)
}

func compile(w io.Writer, list *timeline.List, g Geometry, spanOf spanFunc) (Result, error) {
	entries := list.Entries()
	if len(entries) == 0 {
		return Result{}, nil
	}

	var (
		res   Result
		frags []string
		cuts  []span
	)
	for i, e := range entries {
		if e.Filter.Type() == filters.TypeCut {
			c := exactSpan(entries, i)
			cuts = append(cuts, c)
			res.Cuts = append(res.Cuts, Cut{Start: c.start, End: c.end, Bounded: c.bounded})
			continue
		}
		enable := "enable='" + spanOf(entries, i).expr("n", frameNumber) + "'"
		if frag := e.Filter.FFmpegString(enable, g.Width, g.Height); frag != "" {
			frags = append(frags, frag)
		}
	}
	res.AffectsAudio = len(cuts) > 0

	var audio []string
	if len(cuts) > 0 {
		fps := strconv.FormatFloat(g.FPS, 'f', 6, 64)
		seconds := func(n int) string { return strconv.Itoa(n) + "/" + fps }

		video := make([]string, 0, len(cuts))
		audioTerms := make([]string, 0, len(cuts))
		for _, c := range cuts {
			video = append(video, c.expr("n", frameNumber))
			audioTerms = append(audioTerms, c.expr("t", seconds))
		}
		frags = append(frags,
			"select='not("+strings.Join(video, "+")+")'",
			"setpts=N/FRAME_RATE/TB",
		)
		audio = []string{
			"aselect='not(" + strings.Join(audioTerms, "+") + ")'",
			"asetpts=N/SR/TB",
		}
	}
	if len(frags) == 0 {
		// only no-op and review entries: keep the graph valid
		frags = append(frags, "null")
	}

	var b strings.Builder
	b.WriteString("[0:v]\n")
	b.WriteString(strings.Join(frags, ",\n"))
	b.WriteString("\n[out_v]")
	if len(audio) > 0 {
		b.WriteString(";\n[0:a]\n")
		b.WriteString(strings.Join(audio, ",\n"))
		b.WriteString("\n[out_a]")
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return Result{}, fmt.Errorf("write script: %w", err)
	}
	return res, nil
}
