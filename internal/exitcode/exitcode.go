package exitcode

// Per-file failures during organize still exit with Success; they are
// reported in the summary instead.
const (
	Success        = 0
	RuntimeFailure = 1
	InvalidUsage   = 2
	InvalidConfig  = 3
	NotReady       = 4
	Interrupted    = 130
)
