package autosave

import "fmt"

// Status is the persistence indicator shown next to the board.
type Status int

const (
	Saved Status = iota
	Unsaved
	Saving
	Failed
)

func (s Status) String() string {
	switch s {
	case Saved:
		return "saved"
	case Unsaved:
		return "unsaved"
	case Saving:
		return "saving"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// SyncWriteFailedError wraps a failed write. The local copy is retained and the next Notify or
// SaveNow tries again.
type SyncWriteFailedError struct {
	Err error
}

func (e *SyncWriteFailedError) Error() string {
	return fmt.Sprintf("save failed: %v", e.Err)
}

func (e *SyncWriteFailedError) Unwrap() error { return e.Err }
