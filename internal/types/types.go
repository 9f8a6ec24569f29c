package types

// StreamInfo is the geometry of the first video stream of a movie.
type StreamInfo struct {
	Width  int
	Height int
	FPS    float64
	// Frames is 0 when the container reports neither frame count nor duration.
	Frames int
}

type Summary struct {
	Project         string          `yaml:"project"`
	Movie           string          `yaml:"movie"`
	Script          string          `yaml:"script,omitempty"`
	Width           int             `yaml:"width"`
	Height          int             `yaml:"height"`
	FPS             float64         `yaml:"fps"`
	Frames          int             `yaml:"frames"`
	ResultingFrames int             `yaml:"resulting_frames"`
	AffectsAudio    bool            `yaml:"affects_audio"`
	NeedsReview     bool            `yaml:"needs_review"`
	Fuzziness       float64         `yaml:"fuzziness,omitempty"`
	Seed            uint64          `yaml:"seed,omitempty"`
	Filters         []SummaryFilter `yaml:"filters"`
}

type SummaryFilter struct {
	Start int    `yaml:"start"`
	End   *int   `yaml:"end,omitempty"` // exclusive; nil for the last entry
	Type  string `yaml:"type"`
	X     *int   `yaml:"x,omitempty"`
	Y     *int   `yaml:"y,omitempty"`
	W     *int   `yaml:"w,omitempty"`
	H     *int   `yaml:"h,omitempty"`
}
