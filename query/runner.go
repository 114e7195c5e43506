package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/snapquery/snapquery/core"
	"github.com/snapquery/snapquery/engine"
)

// Session is the slice of a database session the runner needs.
// *session.Session satisfies it.
type Session interface {
	Loaded() bool
	Load(ctx context.Context) error
	Query(query string) (*engine.ResultSet, error)
	Run(query string) error
}

// Runner orchestrates one request at a time against a session, with
// status side effects on a shared QueryStatus record. A second Execute
// issued while one is in flight is rejected with a busy failure rather
// than interleaved; there is no queueing.
type Runner struct {
	session Session
	status  *core.QueryStatus

	mu       sync.Mutex
	inFlight bool
}

// NewRunner creates a runner over session, finalizing status on every
// request.
func NewRunner(session Session, status *core.QueryStatus) *Runner {
	return &Runner{session: session, status: status}
}

// Execute runs one SQL request end to end. Empty or whitespace-only
// text is rejected before the session is touched and without any status
// transition. An unloaded session is loaded once; a failed load ends
// the request with a session failure. The status is always finalized
// when a request actually starts.
func (r *Runner) Execute(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Failure{Kind: core.KindValidation, Message: "query text is empty"}
	}

	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return Failure{Kind: core.KindBusy, Message: "a query is already running"}
	}
	r.inFlight = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()

	if !r.session.Loaded() {
		if err := r.session.Load(ctx); err != nil {
			return Failure{Kind: core.KindSession, Message: err.Error()}
		}
	}

	r.status.Start()
	started := time.Now()

	result := r.run(text)

	rowCount := 0
	if rows, ok := result.(Rows); ok {
		rowCount = len(rows.Data)
	}
	r.status.Finish(result.Type() != FailureResultType, time.Since(started).Seconds(), rowCount)

	return result
}

func (r *Runner) run(text string) Result {
	if isProjection(text) {
		set, err := r.session.Query(text)
		if err != nil {
			return engineFailure(err)
		}
		// No result set at all is still a success: an empty table.
		if set == nil || len(set.Columns) == 0 {
			return Rows{Columns: []string{}, Data: [][]interface{}{}}
		}
		return Rows{Columns: set.Columns, Data: set.Rows}
	}

	if err := r.session.Run(text); err != nil {
		return engineFailure(err)
	}
	return Ack{Message: "Query executed successfully"}
}

// isProjection classifies a statement by its leading keyword. Only a
// whole-word SELECT takes the projection path; anything else, including
// identifiers that merely start with SELECT, takes the side-effecting
// execution path.
func isProjection(text string) bool {
	text = strings.TrimSpace(text)
	i := 0
	for i < len(text) && isKeywordByte(text[i]) {
		i++
	}
	return strings.EqualFold(text[:i], "SELECT")
}

func isKeywordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// engineFailure maps an execution error to a Failure. Raw engine
// messages go through the fixed classification table; errors that
// already carry a kind keep it.
func engineFailure(err error) Failure {
	if kind := core.KindOf(err); kind != core.KindEngine {
		return Failure{Kind: kind, Message: err.Error()}
	}
	return Failure{Kind: core.KindEngine, Message: core.ClassifyEngineMessage(err.Error())}
}
