package conveyor

import "errors"

var (
	// Construction errors.
	ErrNilStage = errors.New("conveyor: nil stage added to pipeline")
	ErrNoStages = errors.New("conveyor: pipeline has no stages")

	// Run errors.
	ErrAlreadyRunning = errors.New("conveyor: pipeline already running")
)
