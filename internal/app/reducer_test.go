package app_test

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"quizdeck/internal/app"
	"quizdeck/internal/domain"
)

func seededState() domain.AppState {
	return domain.NewInitialState(domain.SeedSuperAdmin())
}

func sampleQuiz(id string) domain.Quiz {
	return domain.Quiz{
		ID:          id,
		Title:       "Animals",
		Description: "Easy animal questions",
		Questions: []domain.Question{
			{
				ID:                 id + "-q1",
				Text:               "Which animal barks?",
				Options:            []string{"Cat", "Dog", "Fish", "Bird"},
				CorrectAnswerIndex: 1,
			},
		},
	}
}

func sampleResult(quizID string) domain.Result {
	return domain.NewResult(quizID, "Alice", 1, 1, []int{1},
		time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestAddQuizPreservesInsertionOrder(t *testing.T) {
	state := seededState()
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-1")})
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-2")})

	if len(state.QuizOrder) != 2 || state.QuizOrder[0] != "quiz-1" || state.QuizOrder[1] != "quiz-2" {
		t.Fatalf("expected order [quiz-1 quiz-2], got %v", state.QuizOrder)
	}
}

func TestUpdateQuizInPlaceAndUnknownNoOp(t *testing.T) {
	state := seededState()
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-1")})
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-2")})

	updated := sampleQuiz("quiz-1")
	updated.Title = "Animals, revised"
	next := app.Apply(state, domain.UpdateQuiz{Quiz: updated})
	if next.Quizzes["quiz-1"].Title != "Animals, revised" {
		t.Fatalf("expected updated title, got %q", next.Quizzes["quiz-1"].Title)
	}
	if next.QuizOrder[0] != "quiz-1" {
		t.Fatalf("update must not move the quiz, order %v", next.QuizOrder)
	}

	missing := sampleQuiz("quiz-404")
	unchanged := app.Apply(next, domain.UpdateQuiz{Quiz: missing})
	if !reflect.DeepEqual(unchanged, next) {
		t.Fatalf("updating an unknown quiz must be a no-op")
	}
}

func TestDeleteQuizCascadesResults(t *testing.T) {
	state := seededState()
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-1")})
	state = app.Apply(state, domain.AddResult{Result: sampleResult("quiz-1")})
	if len(state.Results["quiz-1"]) != 1 {
		t.Fatalf("expected one recorded result")
	}

	state = app.Apply(state, domain.DeleteQuiz{QuizID: "quiz-1"})
	if _, ok := state.Quizzes["quiz-1"]; ok {
		t.Fatalf("quiz should be gone")
	}
	if _, ok := state.Results["quiz-1"]; ok {
		t.Fatalf("results entry must be removed entirely with its quiz")
	}
	if len(state.QuizOrder) != 0 {
		t.Fatalf("quiz order should be empty, got %v", state.QuizOrder)
	}
}

func TestQuestionLifecycle(t *testing.T) {
	state := seededState()
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-1")})

	q2, err := domain.NewQuestion("Which animal meows?", []string{"Cat", "Dog", "Cow", "Hen"}, 0)
	if err != nil {
		t.Fatalf("new question: %v", err)
	}
	state = app.Apply(state, domain.AddQuestion{QuizID: "quiz-1", Question: q2})
	if got := len(state.Quizzes["quiz-1"].Questions); got != 2 {
		t.Fatalf("expected 2 questions, got %d", got)
	}

	q2.Text = "Which animal purrs?"
	state = app.Apply(state, domain.UpdateQuestion{QuizID: "quiz-1", Question: q2})
	if state.Quizzes["quiz-1"].Questions[1].Text != "Which animal purrs?" {
		t.Fatalf("question update must replace in place")
	}

	state = app.Apply(state, domain.DeleteQuestion{QuizID: "quiz-1", QuestionID: q2.ID})
	if got := len(state.Quizzes["quiz-1"].Questions); got != 1 {
		t.Fatalf("expected 1 question after delete, got %d", got)
	}

	unchanged := app.Apply(state, domain.DeleteQuestion{QuizID: "quiz-1", QuestionID: "nope"})
	if !reflect.DeepEqual(unchanged, state) {
		t.Fatalf("deleting an unknown question must be a no-op")
	}
	unchanged = app.Apply(state, domain.AddQuestion{QuizID: "quiz-404", Question: q2})
	if !reflect.DeepEqual(unchanged, state) {
		t.Fatalf("adding to an unknown quiz must be a no-op")
	}
}

func TestAddResultRequiresExistingQuiz(t *testing.T) {
	state := seededState()
	next := app.Apply(state, domain.AddResult{Result: sampleResult("quiz-404")})
	if !reflect.DeepEqual(next, state) {
		t.Fatalf("a result for a missing quiz must not be recorded")
	}
}

func TestLoginMatchesEmailAndPassword(t *testing.T) {
	state := seededState()

	next := app.Apply(state, domain.Login{
		Email:    domain.DefaultSuperAdminEmail,
		Password: "wrong",
	})
	if !reflect.DeepEqual(next, state) {
		t.Fatalf("bad credentials must leave the state unchanged")
	}

	next = app.Apply(state, domain.Login{
		Email:    domain.DefaultSuperAdminEmail,
		Password: domain.DefaultSuperAdminPassword,
	})
	user, ok := next.CurrentUser()
	if !ok || !user.IsSuperAdmin {
		t.Fatalf("expected the super admin to be logged in, got %+v", user)
	}

	next = app.Apply(next, domain.Logout{})
	if _, ok := next.CurrentUser(); ok {
		t.Fatalf("logout must clear the current user")
	}
}

func TestAddAdminRejectsDuplicateEmail(t *testing.T) {
	state := seededState()
	state = app.Apply(state, domain.AddAdmin{User: domain.NewAdminUser("teacher@school.example", "pw")})
	if len(state.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(state.Users))
	}

	next := app.Apply(state, domain.AddAdmin{User: domain.NewAdminUser("teacher@school.example", "other")})
	if !reflect.DeepEqual(next, state) {
		t.Fatalf("duplicate email must leave users unchanged")
	}

	forced := domain.NewAdminUser("second@school.example", "pw")
	forced.IsSuperAdmin = true
	next = app.Apply(state, domain.AddAdmin{User: forced})
	if next.Users[forced.ID].IsSuperAdmin {
		t.Fatalf("AddAdmin must never create a super admin")
	}
}

func TestDeleteAdminProtectsSuperAdmin(t *testing.T) {
	state := seededState()
	admin := domain.NewAdminUser("teacher@school.example", "pw")
	state = app.Apply(state, domain.AddAdmin{User: admin})

	super := domain.SeedSuperAdmin()
	next := app.Apply(state, domain.DeleteAdmin{UserID: super.ID})
	if !reflect.DeepEqual(next, state) {
		t.Fatalf("the super admin must not be deletable")
	}

	next = app.Apply(state, domain.DeleteAdmin{UserID: admin.ID})
	if len(next.Users) != 1 {
		t.Fatalf("expected the regular admin to be deleted")
	}
	next = app.Apply(state, domain.DeleteAdmin{UserID: "user-404"})
	if !reflect.DeepEqual(next, state) {
		t.Fatalf("deleting an unknown user must be a no-op")
	}
}

func TestApplyIsPureAndLeavesInputUntouched(t *testing.T) {
	state := seededState()
	state = app.Apply(state, domain.AddQuiz{Quiz: sampleQuiz("quiz-1")})

	actions := []domain.Action{
		domain.AddQuiz{Quiz: sampleQuiz("quiz-2")},
		domain.UpdateQuiz{Quiz: sampleQuiz("quiz-1")},
		domain.AddResult{Result: sampleResult("quiz-1")},
		domain.Logout{},
		domain.DeleteQuiz{QuizID: "quiz-1"},
	}
	for _, action := range actions {
		before := snapshot(state)
		first := app.Apply(state, action)
		second := app.Apply(state, action)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%T: equal inputs must produce structurally equal outputs", action)
		}
		if !reflect.DeepEqual(snapshot(state), before) {
			t.Fatalf("%T: Apply mutated its input state", action)
		}
	}
}

// TestRandomActionSequencesPreserveInvariants throws a few hundred
// random (but well-formed) actions at the reducer and checks the state
// invariants after every step.
func TestRandomActionSequencesPreserveInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	state := seededState()

	for step := 0; step < 500; step++ {
		action := randomAction(rnd, state, step)
		state = app.Apply(state, action)
		assertInvariants(t, state, step, action)
	}
}

func randomAction(rnd *rand.Rand, state domain.AppState, step int) domain.Action {
	pickQuiz := func() string {
		if len(state.QuizOrder) == 0 {
			return "quiz-404"
		}
		return state.QuizOrder[rnd.Intn(len(state.QuizOrder))]
	}
	pickUser := func() string {
		if len(state.UserOrder) == 0 {
			return "user-404"
		}
		return state.UserOrder[rnd.Intn(len(state.UserOrder))]
	}

	switch rnd.Intn(10) {
	case 0:
		return domain.AddQuiz{Quiz: sampleQuiz(fmt.Sprintf("quiz-%d", step))}
	case 1:
		quiz := sampleQuiz(pickQuiz())
		quiz.Title = fmt.Sprintf("Title %d", step)
		return domain.UpdateQuiz{Quiz: quiz}
	case 2:
		return domain.DeleteQuiz{QuizID: pickQuiz()}
	case 3:
		q, _ := domain.NewQuestion(fmt.Sprintf("Question %d?", step),
			[]string{"A", "B", "C", "D"}, rnd.Intn(4))
		return domain.AddQuestion{QuizID: pickQuiz(), Question: q}
	case 4:
		return domain.DeleteQuestion{QuizID: pickQuiz(), QuestionID: fmt.Sprintf("q-%d", rnd.Intn(5))}
	case 5:
		return domain.AddResult{Result: sampleResult(pickQuiz())}
	case 6:
		return domain.Login{Email: domain.DefaultSuperAdminEmail, Password: domain.DefaultSuperAdminPassword}
	case 7:
		return domain.Logout{}
	case 8:
		return domain.AddAdmin{User: domain.NewAdminUser(fmt.Sprintf("admin-%d@school.example", rnd.Intn(20)), "pw")}
	default:
		return domain.DeleteAdmin{UserID: pickUser()}
	}
}

func assertInvariants(t *testing.T, state domain.AppState, step int, action domain.Action) {
	t.Helper()

	supers := 0
	emails := map[string]int{}
	for _, user := range state.Users {
		if user.IsSuperAdmin {
			supers++
		}
		emails[user.Email]++
	}
	if supers != 1 {
		t.Fatalf("step %d %T: expected exactly one super admin, got %d", step, action, supers)
	}
	for email, n := range emails {
		if n > 1 {
			t.Fatalf("step %d %T: duplicate email %s", step, action, email)
		}
	}

	for quizID := range state.Results {
		if _, ok := state.Quizzes[quizID]; !ok {
			t.Fatalf("step %d %T: results reference deleted quiz %s", step, action, quizID)
		}
	}

	for _, quiz := range state.Quizzes {
		for _, q := range quiz.Questions {
			if !q.Valid() {
				t.Fatalf("step %d %T: invalid question %+v", step, action, q)
			}
		}
	}

	if len(state.QuizOrder) != len(state.Quizzes) {
		t.Fatalf("step %d %T: quiz order out of sync: %d vs %d",
			step, action, len(state.QuizOrder), len(state.Quizzes))
	}
	if len(state.UserOrder) != len(state.Users) {
		t.Fatalf("step %d %T: user order out of sync: %d vs %d",
			step, action, len(state.UserOrder), len(state.Users))
	}
}

// snapshot deep-copies enough of the state to detect mutation.
func snapshot(state domain.AppState) domain.AppState {
	out := state
	out.Quizzes = map[string]domain.Quiz{}
	for id, quiz := range state.Quizzes {
		quiz.Questions = append([]domain.Question(nil), quiz.Questions...)
		out.Quizzes[id] = quiz
	}
	out.Results = map[string][]domain.Result{}
	for id, results := range state.Results {
		out.Results[id] = append([]domain.Result(nil), results...)
	}
	out.Users = map[string]domain.User{}
	for id, user := range state.Users {
		out.Users[id] = user
	}
	out.QuizOrder = append([]string(nil), state.QuizOrder...)
	out.UserOrder = append([]string(nil), state.UserOrder...)
	return out
}
