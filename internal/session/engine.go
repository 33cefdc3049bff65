// Package session drives one student through one timed quiz attempt:
// a fixed countdown per question, forced auto-advance on timeout, answer
// recording, scoring, and a single submitted result.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"quizdeck/internal/domain"
)

// DefaultQuestionSeconds is the per-question countdown.
const DefaultQuestionSeconds = 15

// Dispatch delivers the engine's one AddResult action to the state
// store. Injected at construction; the engine never reaches for a
// global dispatcher.
type Dispatch func(domain.Action)

// TickerFactory produces a cancellable one-second wake-up source.
// Swapped out in tests for a hand-driven channel.
type TickerFactory func(d time.Duration) (<-chan time.Time, func())

func defaultTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Option configures an Engine.
type Option func(*Engine)

// WithQuestionSeconds overrides the per-question countdown.
func WithQuestionSeconds(seconds int) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.questionSeconds = seconds
		}
	}
}

// WithClock injects the timestamp source for the submitted result.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTicker injects the countdown wake-up source.
func WithTicker(f TickerFactory) Option {
	return func(e *Engine) { e.newTicker = f }
}

// View is a read-only snapshot for consumers rendering the session.
type View struct {
	QuestionIndex  int
	TotalQuestions int
	Question       domain.Question
	Answers        []int
	TimeRemaining  int
	Progress       float64
	Submitted      bool
	ResultID       string
}

// Engine is the per-attempt state machine. One engine serves exactly one
// attempt; re-taking a quiz means constructing a fresh engine.
type Engine struct {
	quiz            domain.Quiz
	studentName     string
	dispatch        Dispatch
	questionSeconds int
	now             func() time.Time
	newTicker       TickerFactory

	mu        sync.Mutex
	started   bool
	finished  bool
	index     int
	answers   []int
	remaining int
	resultID  string

	// Timer bookkeeping: epoch invalidates ticks from a question that
	// was already left, so two timers can never act at once.
	epoch     int
	stopTimer func()
}

// New validates the session preconditions. A quiz with zero questions
// and a blank student name are both fatal: the engine refuses to exist
// rather than start a timer it cannot finish.
func New(quiz domain.Quiz, studentName string, dispatch Dispatch, opts ...Option) (*Engine, error) {
	name := strings.TrimSpace(studentName)
	if name == "" {
		return nil, domain.ErrNoStudentName
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.ErrEmptyQuiz
	}
	if dispatch == nil {
		return nil, fmt.Errorf("session: dispatch is required")
	}

	answers := make([]int, len(quiz.Questions))
	for i := range answers {
		answers[i] = domain.Unanswered
	}

	e := &Engine{
		quiz:            quiz,
		studentName:     name,
		dispatch:        dispatch,
		questionSeconds: DefaultQuestionSeconds,
		now:             time.Now,
		newTicker:       defaultTicker,
		answers:         answers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start enters the first question and arms its countdown. Calling Start
// twice is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.finished {
		return
	}
	e.started = true
	e.enterQuestionLocked(0)
}

// SelectAnswer records an option for the active question, overwriting
// any previous pick. It neither advances nor touches the timer.
func (e *Engine) SelectAnswer(option int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started || e.finished {
		return domain.ErrSessionFinished
	}
	if option < 0 || option >= len(e.quiz.Questions[e.index].Options) {
		return domain.ErrInvalidOption
	}
	e.answers[e.index] = option
	return nil
}

// Next moves to the following question with a fresh countdown, or
// submits when the active question is the last one.
func (e *Engine) Next() error {
	e.mu.Lock()
	if !e.started || e.finished {
		e.mu.Unlock()
		return domain.ErrSessionFinished
	}
	act := e.advanceLocked()
	e.mu.Unlock()
	e.emit(act)
	return nil
}

// Previous re-enters the prior question with a fresh countdown. At the
// first question it does nothing; recorded answers are never altered.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started || e.finished {
		return domain.ErrSessionFinished
	}
	if e.index == 0 {
		return nil
	}
	e.enterQuestionLocked(e.index - 1)
	return nil
}

// Stop tears the engine down without submitting. Safe to call at any
// point; the countdown never fires again.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
	e.finished = true
}

// Snapshot returns the state a consumer needs to render the session.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		QuestionIndex:  e.index,
		TotalQuestions: len(e.quiz.Questions),
		Question:       e.quiz.Questions[e.index],
		Answers:        append([]int(nil), e.answers...),
		TimeRemaining:  e.remaining,
		Progress:       float64(e.index+1) / float64(len(e.quiz.Questions)),
		Submitted:      e.finished && e.resultID != "",
		ResultID:       e.resultID,
	}
}

// ResultID is set once the session submitted; consumers pass it forward
// to the results view.
func (e *Engine) ResultID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resultID
}

// enterQuestionLocked (re-)enters question i: cancel whatever timer was
// running, reset the countdown, and arm a new ticker bound to a fresh
// epoch.
func (e *Engine) enterQuestionLocked(i int) {
	e.cancelTimerLocked()
	e.index = i
	e.remaining = e.questionSeconds

	e.epoch++
	epoch := e.epoch
	ticks, stop := e.newTicker(time.Second)
	// time.Ticker.Stop never closes its channel, so cancellation signals
	// the goroutine through done as well.
	done := make(chan struct{})
	e.stopTimer = func() {
		stop()
		close(done)
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				act, alive := e.tick(epoch)
				e.emit(act)
				if !alive {
					return
				}
			}
		}
	}()
}

// tick handles one elapsed second for the given timer epoch. Reaching
// zero behaves exactly like Next. Stale epochs are ignored, which keeps
// a late tick from a cancelled timer harmless.
func (e *Engine) tick(epoch int) (domain.Action, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished || epoch != e.epoch {
		return nil, false
	}
	e.remaining--
	if e.remaining > 0 {
		return nil, true
	}
	e.remaining = 0
	return e.advanceLocked(), false
}

// advanceLocked implements the shared Next/Timeout transition and
// returns the AddResult action when it submits.
func (e *Engine) advanceLocked() domain.Action {
	if e.index < len(e.quiz.Questions)-1 {
		e.enterQuestionLocked(e.index + 1)
		return nil
	}
	return e.submitLocked()
}

// submitLocked scores the attempt once, on entry. Unanswered questions
// keep their sentinel and count as wrong.
func (e *Engine) submitLocked() domain.Action {
	e.cancelTimerLocked()
	e.finished = true

	score := 0
	for i, answer := range e.answers {
		if answer == e.quiz.Questions[i].CorrectAnswerIndex {
			score++
		}
	}

	result := domain.NewResult(
		e.quiz.ID,
		e.studentName,
		score,
		len(e.quiz.Questions),
		e.answers,
		e.now(),
	)
	e.resultID = result.ID
	return domain.AddResult{Result: result}
}

func (e *Engine) cancelTimerLocked() {
	e.epoch++
	if e.stopTimer != nil {
		e.stopTimer()
		e.stopTimer = nil
	}
}

func (e *Engine) emit(act domain.Action) {
	if act != nil {
		e.dispatch(act)
	}
}
