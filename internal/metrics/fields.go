package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrOperation = "operation"
	AttrOutcome   = "outcome"
)

// Scoreboard operations recorded by the Recorder.
const (
	OpStartGame   = "start_game"
	OpFinishGame  = "finish_game"
	OpUpdateScore = "update_score"
	OpSummary     = "summary"
)
