package domain

import "time"

// Question is a single trivia question as loaded from the question file.
// Questions are immutable once loaded; Answers keep their file order and
// CorrectAnswer indexes into Answers.
type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"question"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// AnswerResult is the server's verdict on a submitted answer.
// CorrectAnswer indexes into the question's original answer order.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// AskedQuestion associates a session with one question it answered.
// Records are append-only; there is no update or delete path.
type AskedQuestion struct {
	Session    string
	QuestionID int
	AskedAt    time.Time
}

// UserActivity aggregates the asked-question records of one session.
type UserActivity struct {
	Session     string `json:"userJwt"`
	QuestionIDs []int  `json:"askedQuestionIds"`
	Count       int    `json:"totalNumberOfQuestionsAsked"`
}

// Metrics is the admin view over all recorded sessions.
type Metrics struct {
	TotalUsers     int            `json:"totalNumberOfUsers"`
	TotalQuestions int            `json:"totalNumberOfQuestions"`
	Users          []UserActivity `json:"users"`
}
