package ports

import (
	"context"

	"github.com/forPelevin/mdlv/internal/types"
)

type VideoProber interface {
	ProbeStream(ctx context.Context, moviePath string) (types.StreamInfo, error)
}
