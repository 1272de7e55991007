package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusProcessing Status = "PROCESSING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}
