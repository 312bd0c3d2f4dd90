package errs

import "errors"

var (
	QuestionNotFound    = errors.New("question not found")
	NoTestCasesFound    = errors.New("no test cases found for this question")
	UnsafeCodeRejected  = errors.New("code contains potentially unsafe operations")
	UnsupportedLanguage = errors.New("unsupported language")
	SubmissionNotFound  = errors.New("submission not found")
	InvalidRequest      = errors.New("invalid request")
)

var (
	SubmissionTokenMissing = errors.New("no submission token received from execution backend")
	ExecutionTimeout       = errors.New("submission processing timeout")
	EntryPointNotFound     = errors.New("entry point not found")
	AIReviewUnavailable    = errors.New("ai review unavailable")
	RateLimited            = errors.New("too many submissions, please try again later")
)
