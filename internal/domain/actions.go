package domain

// Action is a state transition request. The set is sealed: app.Apply
// handles every variant and treats anything else as a no-op.
type Action interface {
	isAction()
}

// ReplaceState swaps the entire state for the payload verbatim.
type ReplaceState struct {
	State AppState
}

// AddQuiz appends a quiz, preserving insertion order.
type AddQuiz struct {
	Quiz Quiz
}

// UpdateQuiz replaces a quiz in place; unknown ids are ignored.
type UpdateQuiz struct {
	Quiz Quiz
}

// DeleteQuiz removes a quiz and cascades to its results.
type DeleteQuiz struct {
	QuizID string
}

// AddQuestion appends a question to a quiz's ordered sequence.
type AddQuestion struct {
	QuizID   string
	Question Question
}

// UpdateQuestion replaces a question in place by id.
type UpdateQuestion struct {
	QuizID   string
	Question Question
}

// DeleteQuestion removes a question from a quiz.
type DeleteQuestion struct {
	QuizID     string
	QuestionID string
}

// AddResult appends an attempt record to the quiz's result sequence.
type AddResult struct {
	Result Result
}

// Login sets the current user when email and password both match;
// otherwise the state is left unchanged.
type Login struct {
	Email    string
	Password string
}

// Logout clears the current user.
type Logout struct{}

// AddAdmin appends a non-super admin account; duplicate emails are
// ignored.
type AddAdmin struct {
	User User
}

// DeleteAdmin removes an admin account; the super admin and unknown ids
// are ignored.
type DeleteAdmin struct {
	UserID string
}

func (ReplaceState) isAction()   {}
func (AddQuiz) isAction()        {}
func (UpdateQuiz) isAction()     {}
func (DeleteQuiz) isAction()     {}
func (AddQuestion) isAction()    {}
func (UpdateQuestion) isAction() {}
func (DeleteQuestion) isAction() {}
func (AddResult) isAction()      {}
func (Login) isAction()          {}
func (Logout) isAction()         {}
func (AddAdmin) isAction()       {}
func (DeleteAdmin) isAction()    {}
