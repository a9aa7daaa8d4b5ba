package bot

import "sync"

// InputKind tags what a conversation step is waiting for. A step that
// receives any other kind ignores the input.
type InputKind int

const (
	InputText InputKind = iota
	InputSelect
	InputRating
	InputMedia
)

// NewCategoryID is the sentinel a category picker emits for the
// "create new category" row.
const NewCategoryID = -1

// Input is one decoded user turn fed into the active session.
type Input struct {
	Kind     InputKind
	Text     string
	ID       int64
	Rating   int
	MediaRef string
}

// Step is one state in a conversation flow. Run consumes the input, sends
// whatever prompt the flow needs next, and names the following step; an
// empty next ends the session. Run commits to the store only on the
// terminal step, so an abandoned session leaves no row behind.
type Step struct {
	Expect InputKind
	Run    func(s *Session, in Input) (next string, err error)
}

// Session is the per-user accumulator for one multi-turn add/edit/rate flow.
// Fields distinguishes explicit absence from leave-unchanged: a key mapped
// to nil was skipped in an add flow and stores NULL, a key that is missing
// entirely was skipped in an edit flow and keeps the current value.
type Session struct {
	UserID  int64
	ChatID  int64
	Domain  Domain
	Flow    string
	ItemID  int64
	Rating1 *int
	Fields  map[string]*string

	steps   map[string]Step
	current string
}

// Set records a collected field value.
func (s *Session) Set(name, value string) {
	s.Fields[name] = &value
}

// SetAbsent records an explicit absence for an optional field.
func (s *Session) SetAbsent(name string) {
	s.Fields[name] = nil
}

// Field returns the collected value for name, nil when absent or skipped.
func (s *Session) Field(name string) *string {
	return s.Fields[name]
}

// Engine owns the active conversations, at most one per user. Starting a
// new flow replaces whatever session the user had, partial input included.
type Engine struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewEngine() *Engine {
	return &Engine{sessions: make(map[int64]*Session)}
}

// Start registers a session positioned at the named first step.
func (e *Engine) Start(s *Session, steps map[string]Step, first string) {
	s.Fields = map[string]*string{}
	s.steps = steps
	s.current = first

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[s.UserID] = s
}

// Active reports whether the user has a session in flight.
func (e *Engine) Active(userID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[userID] != nil
}

// Handle feeds input to the user's session. It reports false when the user
// has no session; input of the wrong kind for the current step is consumed
// without effect. A step error tears the session down and is returned for
// the caller to surface.
func (e *Engine) Handle(userID int64, in Input) (bool, error) {
	e.mu.Lock()
	s := e.sessions[userID]
	e.mu.Unlock()
	if s == nil {
		return false, nil
	}

	step, ok := s.steps[s.current]
	if !ok {
		e.Cancel(userID)
		return true, nil
	}
	if in.Kind != step.Expect {
		return true, nil
	}

	next, err := step.Run(s, in)
	if err != nil {
		e.Cancel(userID)
		return true, err
	}
	if next == "" {
		e.Cancel(userID)
		return true, nil
	}

	e.mu.Lock()
	// The step may have started a replacement session; only advance if ours
	// is still the active one.
	if e.sessions[userID] == s {
		s.current = next
	}
	e.mu.Unlock()
	return true, nil
}

// Cancel discards the user's session without touching the store.
func (e *Engine) Cancel(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
}
