package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quiztimer-service/internal/domain"
)

// NoAnswer is the sentinel option index for a timed-out or skipped question.
// Any out-of-range submission normalizes to it.
const NoAnswer = -1

// EngineState is the session state machine position.
type EngineState int

const (
	StateIdle EngineState = iota
	StatePresenting
	StateRevealing
	StateFinished
)

func (s EngineState) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateRevealing:
		return "revealing"
	case StateFinished:
		return "finished"
	default:
		return "idle"
	}
}

// QuestionView is what the caller needs to render one presented question.
type QuestionView struct {
	Index            int      `json:"index"`
	Total            int      `json:"total"`
	Prompt           string   `json:"prompt"`
	Options          []string `json:"options"`
	RemainingSeconds int      `json:"remainingSeconds"`
}

// RevealView identifies the correct option, and the selected one if any,
// once a question has been answered or timed out.
type RevealView struct {
	Index          int    `json:"index"`
	Prompt         string `json:"prompt"`
	CorrectOption  int    `json:"correctOption"`
	SelectedOption int    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

// EngineEvents carries the callbacks the engine invokes on state
// transitions. Any field may be nil. Callbacks run outside the engine lock,
// on the goroutine that triggered the transition (caller or timer).
type EngineEvents struct {
	QuestionPresented func(QuestionView)
	Tick              func(remainingSeconds int)
	AnswerRevealed    func(RevealView)
	SessionFinished   func(session domain.GameSession, summary string)
	Warning           func(err error)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithRand injects a seeded random source for deterministic shuffles.
func WithRand(rnd *rand.Rand) EngineOption {
	return func(e *Engine) { e.rnd = rnd }
}

// WithTickInterval overrides the 1s countdown tick, mainly for tests.
func WithTickInterval(d time.Duration) EngineOption {
	return func(e *Engine) { e.tick = d }
}

// WithRevealPause overrides the pause before auto-advancing past a reveal.
func WithRevealPause(d time.Duration) EngineOption {
	return func(e *Engine) { e.revealPause = d }
}

// Engine drives one player's timed play-through of a question pack:
// Idle -> Presenting(i) -> Revealing(i) -> Presenting(i+1) | Finished.
// One engine instance is one session; nothing survives into the next Start.
type Engine struct {
	now         func() time.Time
	tick        time.Duration
	revealPause time.Duration
	events      EngineEvents

	mu    sync.Mutex
	rnd   *rand.Rand
	state EngineState
	// gen invalidates scheduled timers: every exit from Presenting or
	// Revealing bumps it, so a stale tick can never fire into a later
	// question.
	gen   int
	timer *time.Timer

	pack       domain.QuestionPack
	playerName string
	order      []int
	current    int
	options    []string
	correctOpt int
	remaining  int

	questionStartedAt time.Time
	sessionStartedAt  time.Time
	correctCount      int
	answers           []domain.GameSessionAnswer
}

// NewEngine builds an idle engine. Call Start to begin a session.
func NewEngine(events EngineEvents, opts ...EngineOption) *Engine {
	e := &Engine{
		now:         time.Now,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		tick:        time.Second,
		revealPause: 2 * time.Second,
		events:      events,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start validates the pack, shuffles a fresh question order, and presents
// the first question. An in-flight session is cancelled first. The pack is
// snapshotted: later edits to it do not affect the running session.
func (e *Engine) Start(pack domain.QuestionPack, playerName string) error {
	if len(pack.Questions) == 0 {
		return domain.ErrInvalidPack
	}
	for _, q := range pack.Questions {
		if !q.Complete() {
			return domain.ErrInvalidPack
		}
	}

	e.mu.Lock()
	e.cancelLocked()
	e.pack = pack
	e.playerName = playerName
	e.order = e.rnd.Perm(len(pack.Questions))
	e.current = 0
	e.correctCount = 0
	e.answers = nil
	e.sessionStartedAt = e.now().UTC()
	e.state = StatePresenting
	view := e.presentLocked()
	e.mu.Unlock()

	e.emitQuestion(view)
	return nil
}

// SubmitAnswer records the player's choice for the current question and
// moves to the reveal. Out-of-range indices count as "no answer"; the
// engine never rejects a submission. Outside Presenting it is a no-op:
// a submission racing the countdown loses to whichever transition ran
// first, never both.
func (e *Engine) SubmitAnswer(optionIndex int) {
	e.mu.Lock()
	if e.state != StatePresenting {
		e.mu.Unlock()
		return
	}
	reveal := e.revealLocked(optionIndex)
	e.mu.Unlock()

	e.emitReveal(reveal)
}

// Cancel abandons the session and returns to Idle. No session record is
// emitted; an abandoned play-through is neither scored nor stored.
func (e *Engine) Cancel() {
	e.mu.Lock()
	e.cancelLocked()
	e.mu.Unlock()
}

// State reports the current state machine position.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CorrectCount reports the running number of correct answers.
func (e *Engine) CorrectCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.correctCount
}

func (e *Engine) cancelLocked() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.state = StateIdle
	e.answers = nil
	e.correctCount = 0
}

// presentLocked selects the question at the current shuffled index, builds
// the shuffled 4-option list, and arms the countdown.
func (e *Engine) presentLocked() QuestionView {
	q := e.pack.Questions[e.order[e.current]]
	src := []string{q.CorrectAnswer, q.IncorrectAnswers[0], q.IncorrectAnswers[1], q.IncorrectAnswers[2]}

	perm := e.rnd.Perm(len(src))
	e.options = make([]string, len(src))
	for i, p := range perm {
		e.options[i] = src[p]
		if p == 0 {
			e.correctOpt = i
		}
	}

	e.remaining = e.pack.TimeLimitSeconds
	e.questionStartedAt = e.now()
	e.scheduleLocked(e.tick, e.onTick)

	return QuestionView{
		Index:            e.current,
		Total:            len(e.order),
		Prompt:           q.Prompt,
		Options:          append([]string(nil), e.options...),
		RemainingSeconds: e.remaining,
	}
}

// scheduleLocked arms the single pending timer for the current generation.
func (e *Engine) scheduleLocked(d time.Duration, fn func(gen int)) {
	if e.timer != nil {
		e.timer.Stop()
	}
	gen := e.gen
	e.timer = time.AfterFunc(d, func() { fn(gen) })
}

func (e *Engine) onTick(gen int) {
	e.mu.Lock()
	if gen != e.gen || e.state != StatePresenting {
		e.mu.Unlock()
		return
	}
	e.remaining--
	if e.remaining > 0 {
		remaining := e.remaining
		e.scheduleLocked(e.tick, e.onTick)
		e.mu.Unlock()
		if e.events.Tick != nil {
			e.events.Tick(remaining)
		}
		return
	}
	// Time expired with no submission: treated as "no answer".
	reveal := e.revealLocked(NoAnswer)
	e.mu.Unlock()

	e.emitReveal(reveal)
}

// revealLocked scores the selection, records the session answer, and moves
// the machine to Revealing. Bumping the generation here is what stops the
// countdown: a tick already in flight sees a stale gen and drops out.
func (e *Engine) revealLocked(optionIndex int) RevealView {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if optionIndex < 0 || optionIndex >= len(e.options) {
		optionIndex = NoAnswer
	}

	q := e.pack.Questions[e.order[e.current]]
	isCorrect := optionIndex == e.correctOpt
	if isCorrect {
		e.correctCount++
	}

	selected := ""
	if optionIndex != NoAnswer {
		selected = e.options[optionIndex]
	}

	spent := int(e.now().Sub(e.questionStartedAt).Seconds())
	if spent < 0 {
		spent = 0
	}

	e.answers = append(e.answers, domain.GameSessionAnswer{
		QuestionIndex:    e.current,
		QuestionText:     q.Prompt,
		SelectedAnswer:   selected,
		CorrectAnswer:    q.CorrectAnswer,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: spent,
	})

	e.state = StateRevealing
	e.scheduleLocked(e.revealPause, e.onRevealDone)

	return RevealView{
		Index:          e.current,
		Prompt:         q.Prompt,
		CorrectOption:  e.correctOpt,
		SelectedOption: optionIndex,
		IsCorrect:      isCorrect,
	}
}

func (e *Engine) onRevealDone(gen int) {
	e.mu.Lock()
	if gen != e.gen || e.state != StateRevealing {
		e.mu.Unlock()
		return
	}
	e.current++
	if e.current < len(e.order) {
		e.state = StatePresenting
		view := e.presentLocked()
		e.mu.Unlock()
		e.emitQuestion(view)
		return
	}

	session, summary := e.finishLocked()
	e.mu.Unlock()

	if e.events.SessionFinished != nil {
		e.events.SessionFinished(session, summary)
	}
}

func (e *Engine) finishLocked() (domain.GameSession, string) {
	e.gen++
	e.state = StateFinished

	ended := e.now().UTC()
	total := int(ended.Sub(e.sessionStartedAt).Seconds())
	if total < 0 {
		total = 0
	}

	session := domain.GameSession{
		PlayerName:       e.playerName,
		PackID:           e.pack.ID,
		PackName:         e.pack.Name,
		StartedAtUTC:     e.sessionStartedAt,
		EndedAtUTC:       ended,
		TotalTimeSeconds: total,
		CorrectCount:     e.correctCount,
		QuestionCount:    len(e.answers),
		Answers:          append([]domain.GameSessionAnswer(nil), e.answers...),
	}
	summary := fmt.Sprintf("%s: %d / %d correct", e.playerName, e.correctCount, len(e.answers))
	return session, summary
}

func (e *Engine) emitQuestion(view QuestionView) {
	if e.events.QuestionPresented != nil {
		e.events.QuestionPresented(view)
	}
}

func (e *Engine) emitReveal(view RevealView) {
	if e.events.AnswerRevealed != nil {
		e.events.AnswerRevealed(view)
	}
}
