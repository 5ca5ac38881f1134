package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrJob     = "job"
	AttrOutcome = "outcome"
	AttrStatus  = "status"
	AttrMirror  = "mirror"
)

// Row outcomes other than skip reasons.
const (
	OutcomeAccepted = "accepted"
)
