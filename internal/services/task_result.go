package services

// TaskResult is what every background task hands back to its trigger.
// Tasks never propagate a panic or a bare error: Status always describes the
// outcome, Processed counts the rows acted on, and Err carries the failure
// for the periodic driver's logs when the run was cut short.
type TaskResult struct {
	Status    string
	Processed int
	Err       error
}

func taskOK(status string, processed int) TaskResult {
	return TaskResult{Status: status, Processed: processed}
}

func taskFailed(status string, err error) TaskResult {
	return TaskResult{Status: status, Err: err}
}
