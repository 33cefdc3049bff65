package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Unanswered marks a question the student never answered.
const Unanswered = -1

// Default credentials for the seeded super admin. Stored and compared in
// plain form; see DESIGN.md before changing this.
const (
	DefaultSuperAdminEmail    = "admin@quizdeck.local"
	DefaultSuperAdminPassword = "quizdeck-admin"

	superAdminID = "super_admin_01"
)

// Question is a single multiple-choice question with exactly OptionCount
// options and one correct index.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Valid reports whether the question satisfies the option-count and
// correct-index invariants.
func (q Question) Valid() bool {
	return len(q.Options) == OptionCount &&
		q.CorrectAnswerIndex >= 0 &&
		q.CorrectAnswerIndex < len(q.Options)
}

// Quiz owns an ordered sequence of questions.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Result records one completed quiz attempt. Results are immutable once
// created and are removed only when their quiz is deleted.
type Result struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quizId"`
	StudentName    string    `json:"studentName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Answers        []int     `json:"answers"`
	Timestamp      time.Time `json:"timestamp"`
}

// User is an admin account. Password is kept in plain form to stay
// compatible with previously persisted state.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}

// AppState is the aggregate root: every quiz, result, and user account,
// plus the transient logged-in user reference. Quizzes and users are
// arenas keyed by id with explicit insertion order so single-entity
// updates stay O(1).
type AppState struct {
	Quizzes       map[string]Quiz     `json:"quizzes"`
	QuizOrder     []string            `json:"quizOrder"`
	Results       map[string][]Result `json:"results"`
	Users         map[string]User     `json:"users"`
	UserOrder     []string            `json:"userOrder"`
	CurrentUserID string              `json:"currentUserId,omitempty"`
}

// NewInitialState returns the hard-coded bootstrap state: the seeded
// super admin and nothing else.
func NewInitialState(seed User) AppState {
	seed.IsSuperAdmin = true
	if seed.ID == "" {
		seed.ID = superAdminID
	}
	return AppState{
		Quizzes:   map[string]Quiz{},
		Results:   map[string][]Result{},
		Users:     map[string]User{seed.ID: seed},
		UserOrder: []string{seed.ID},
	}
}

// SeedSuperAdmin returns the default super admin account.
func SeedSuperAdmin() User {
	return User{
		ID:           superAdminID,
		Email:        DefaultSuperAdminEmail,
		Password:     DefaultSuperAdminPassword,
		IsSuperAdmin: true,
	}
}

// QuizList returns quizzes in insertion order.
func (s AppState) QuizList() []Quiz {
	quizzes := make([]Quiz, 0, len(s.QuizOrder))
	for _, id := range s.QuizOrder {
		if quiz, ok := s.Quizzes[id]; ok {
			quizzes = append(quizzes, quiz)
		}
	}
	return quizzes
}

// UserList returns users in insertion order.
func (s AppState) UserList() []User {
	users := make([]User, 0, len(s.UserOrder))
	for _, id := range s.UserOrder {
		if user, ok := s.Users[id]; ok {
			users = append(users, user)
		}
	}
	return users
}

// CurrentUser resolves the logged-in user reference, if any.
func (s AppState) CurrentUser() (User, bool) {
	if s.CurrentUserID == "" {
		return User{}, false
	}
	user, ok := s.Users[s.CurrentUserID]
	return user, ok
}

// FindQuiz looks a quiz up by id.
func (s AppState) FindQuiz(id string) (Quiz, bool) {
	quiz, ok := s.Quizzes[id]
	return quiz, ok
}

// NewID mints an identifier unique for the lifetime of the process.
func NewID() string {
	return uuid.NewString()
}

// NewQuiz builds a quiz with a fresh id and no questions.
func NewQuiz(title, description string) Quiz {
	return Quiz{
		ID:          "quiz_" + NewID(),
		Title:       title,
		Description: description,
	}
}

// NewQuestion validates authoring input and builds a question with a
// fresh id. Malformed input is rejected here, before any action is
// dispatched.
func NewQuestion(text string, options []string, correctIndex int) (Question, error) {
	if strings.TrimSpace(text) == "" {
		return Question{}, fmt.Errorf("question text is required")
	}
	q := Question{
		ID:                 "question_" + NewID(),
		Text:               text,
		Options:            append([]string(nil), options...),
		CorrectAnswerIndex: correctIndex,
	}
	if !q.Valid() {
		return Question{}, fmt.Errorf("question needs exactly %d options and a correct index within them", OptionCount)
	}
	return q, nil
}

// NewAdminUser builds a regular (non-super) admin account with a fresh id.
func NewAdminUser(email, password string) User {
	return User{
		ID:       "user_" + NewID(),
		Email:    email,
		Password: password,
	}
}

// NewResult builds an immutable attempt record with a fresh id. The
// answers slice is snapshotted.
func NewResult(quizID, studentName string, score, totalQuestions int, answers []int, timestamp time.Time) Result {
	return Result{
		ID:             "result_" + NewID(),
		QuizID:         quizID,
		StudentName:    studentName,
		Score:          score,
		TotalQuestions: totalQuestions,
		Answers:        append([]int(nil), answers...),
		Timestamp:      timestamp,
	}
}
