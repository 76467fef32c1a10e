package domain

// Stage names one step of the notification pipeline.
type Stage string

const (
	StageRelay    Stage = "relay"
	StageDispatch Stage = "dispatch"
)
