package core

// QueryStatus tracks one request's lifecycle for the host UI. It is reset
// at request start and finalized exactly once at request end; a finalized
// status is never un-finalized by the same request.
type QueryStatus struct {
	Running        bool
	Success        bool
	ElapsedSeconds *float64
	RowCount       int
}

// Start resets the status for a new request.
func (s *QueryStatus) Start() {
	s.Running = true
	s.Success = false
	s.ElapsedSeconds = nil
	s.RowCount = 0
}

// Finish finalizes the status at request end.
func (s *QueryStatus) Finish(success bool, elapsedSeconds float64, rowCount int) {
	s.Running = false
	s.Success = success
	s.ElapsedSeconds = &elapsedSeconds
	s.RowCount = rowCount
}
