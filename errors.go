package plantchart

import "errors"

var (
	// ErrNoValidRows means no CSV row had a usable date and power value
	ErrNoValidRows = errors.New("no valid data found, please check CSV format")
	// ErrMissingHeader means the CSV input had no header row
	ErrMissingHeader = errors.New("missing CSV header row")
	// ErrNoData means an operation needs a loaded dataset
	ErrNoData = errors.New("no data loaded")
	// ErrStaleLoad means a newer load started before this one finished
	ErrStaleLoad = errors.New("load superseded by a newer load")
	// ErrResetNotConfirmed guards the destructive reset
	ErrResetNotConfirmed = errors.New("reset must be confirmed")
)

var (
	ErrInvalidRange  = errors.New("start date must be before end date")
	ErrInvalidWindow = errors.New("invalid window")
	ErrInvalidPreset = errors.New("invalid zoom preset")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownSeries = errors.New("unknown series")
)
