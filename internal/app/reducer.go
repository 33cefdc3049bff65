package app

import "quizdeck/internal/domain"

// Apply is the deterministic, total reduction from (state, action) to the
// next state. It never fails: actions whose target is missing, or that
// would break an invariant (duplicate email, super-admin delete, a
// result for a quiz that no longer exists), leave the state unchanged.
// Inputs are never mutated; every changed collection is rebuilt.
func Apply(state domain.AppState, action domain.Action) domain.AppState {
	switch a := action.(type) {
	case domain.ReplaceState:
		return a.State

	case domain.AddQuiz:
		next := state
		next.Quizzes = cloneQuizzes(state.Quizzes)
		if _, exists := next.Quizzes[a.Quiz.ID]; !exists {
			next.QuizOrder = appendCopy(state.QuizOrder, a.Quiz.ID)
		}
		next.Quizzes[a.Quiz.ID] = a.Quiz
		return next

	case domain.UpdateQuiz:
		if _, ok := state.Quizzes[a.Quiz.ID]; !ok {
			return state
		}
		next := state
		next.Quizzes = cloneQuizzes(state.Quizzes)
		next.Quizzes[a.Quiz.ID] = a.Quiz
		return next

	case domain.DeleteQuiz:
		if _, ok := state.Quizzes[a.QuizID]; !ok {
			return state
		}
		next := state
		next.Quizzes = cloneQuizzes(state.Quizzes)
		delete(next.Quizzes, a.QuizID)
		next.QuizOrder = removeID(state.QuizOrder, a.QuizID)
		// Deleting a quiz cascades to its recorded attempts.
		next.Results = cloneResults(state.Results)
		delete(next.Results, a.QuizID)
		return next

	case domain.AddQuestion:
		quiz, ok := state.Quizzes[a.QuizID]
		if !ok {
			return state
		}
		quiz.Questions = append(cloneQuestions(quiz.Questions), a.Question)
		next := state
		next.Quizzes = cloneQuizzes(state.Quizzes)
		next.Quizzes[a.QuizID] = quiz
		return next

	case domain.UpdateQuestion:
		quiz, ok := state.Quizzes[a.QuizID]
		if !ok {
			return state
		}
		idx := questionIndex(quiz.Questions, a.Question.ID)
		if idx < 0 {
			return state
		}
		quiz.Questions = cloneQuestions(quiz.Questions)
		quiz.Questions[idx] = a.Question
		next := state
		next.Quizzes = cloneQuizzes(state.Quizzes)
		next.Quizzes[a.QuizID] = quiz
		return next

	case domain.DeleteQuestion:
		quiz, ok := state.Quizzes[a.QuizID]
		if !ok {
			return state
		}
		idx := questionIndex(quiz.Questions, a.QuestionID)
		if idx < 0 {
			return state
		}
		questions := cloneQuestions(quiz.Questions)
		quiz.Questions = append(questions[:idx], questions[idx+1:]...)
		next := state
		next.Quizzes = cloneQuizzes(state.Quizzes)
		next.Quizzes[a.QuizID] = quiz
		return next

	case domain.AddResult:
		// A result must reference a quiz that exists at creation time.
		if _, ok := state.Quizzes[a.Result.QuizID]; !ok {
			return state
		}
		next := state
		next.Results = cloneResults(state.Results)
		next.Results[a.Result.QuizID] = append(
			append([]domain.Result(nil), state.Results[a.Result.QuizID]...),
			a.Result,
		)
		return next

	case domain.Login:
		for _, user := range state.Users {
			if user.Email == a.Email && user.Password == a.Password {
				next := state
				next.CurrentUserID = user.ID
				return next
			}
		}
		return state

	case domain.Logout:
		next := state
		next.CurrentUserID = ""
		return next

	case domain.AddAdmin:
		for _, user := range state.Users {
			if user.Email == a.User.Email {
				return state
			}
		}
		user := a.User
		user.IsSuperAdmin = false
		next := state
		next.Users = cloneUsers(state.Users)
		next.Users[user.ID] = user
		next.UserOrder = appendCopy(state.UserOrder, user.ID)
		return next

	case domain.DeleteAdmin:
		user, ok := state.Users[a.UserID]
		if !ok || user.IsSuperAdmin {
			return state
		}
		next := state
		next.Users = cloneUsers(state.Users)
		delete(next.Users, a.UserID)
		next.UserOrder = removeID(state.UserOrder, a.UserID)
		if state.CurrentUserID == a.UserID {
			next.CurrentUserID = ""
		}
		return next
	}

	return state
}

func cloneQuizzes(in map[string]domain.Quiz) map[string]domain.Quiz {
	out := make(map[string]domain.Quiz, len(in)+1)
	for id, quiz := range in {
		out[id] = quiz
	}
	return out
}

func cloneResults(in map[string][]domain.Result) map[string][]domain.Result {
	out := make(map[string][]domain.Result, len(in)+1)
	for id, results := range in {
		out[id] = results
	}
	return out
}

func cloneUsers(in map[string]domain.User) map[string]domain.User {
	out := make(map[string]domain.User, len(in)+1)
	for id, user := range in {
		out[id] = user
	}
	return out
}

func cloneQuestions(in []domain.Question) []domain.Question {
	return append([]domain.Question(nil), in...)
}

func appendCopy(in []string, id string) []string {
	return append(append([]string(nil), in...), id)
}

func removeID(in []string, id string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func questionIndex(questions []domain.Question, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}
