package session

import (
	"context"
	"io"
	"sync"
	"time"

	"interview-coach/internal/domain"
	"interview-coach/internal/service"
	"interview-coach/internal/util"

	"go.uber.org/zap"
)

// ErrNotSignedIn is returned by operations that need an account.
var ErrNotSignedIn = domain.NewUnauthorizedError("Auth session missing")

// Deps are the workflows shared by every orchestrator.
type Deps struct {
	Auth         service.AuthService
	Users        service.UserService
	Verification service.VerificationService
	Questions    service.QuestionService
	Ingestion    service.IngestionService
	Interviews   service.InterviewService
}

// State is the session state shown by the client.
type State struct {
	LoggedIn   bool
	Account    *domain.Account
	Questions  []*domain.Question
	History    []*domain.InterviewRecord
	LastUpload *domain.UploadOutcome
	LastError  string
	Loading    bool
}

// Orchestrator runs the user's actions for one session and keeps the
// resulting State. Requests for the same session may overlap.
type Orchestrator struct {
	deps   Deps
	logger *zap.Logger

	mu       sync.RWMutex
	state    State
	session  *domain.Session
	inflight int
	closed   bool
}

func NewOrchestrator(deps Deps, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{deps: deps, logger: logger}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := o.state
	s.Questions = append([]*domain.Question(nil), o.state.Questions...)
	s.History = append([]*domain.InterviewRecord(nil), o.state.History...)
	if o.state.Account != nil {
		a := *o.state.Account
		s.Account = &a
	}
	return s
}

// SessionID is empty until the orchestrator is signed in.
func (o *Orchestrator) SessionID() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.session == nil {
		return ""
	}
	return o.session.ID
}

func (o *Orchestrator) accountID() (string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.state.LoggedIn || o.state.Account == nil {
		return "", ErrNotSignedIn
	}
	return o.state.Account.ID, nil
}

// run marks the orchestrator busy for the duration of fn and records the
// user-facing message of its error.
func (o *Orchestrator) run(fn func() error) error {
	o.mu.Lock()
	o.inflight++
	o.state.Loading = true
	o.mu.Unlock()

	err := fn()

	o.mu.Lock()
	o.inflight--
	o.state.Loading = o.inflight > 0
	if err != nil {
		o.state.LastError = domain.UserMessage(err)
	} else {
		o.state.LastError = ""
	}
	o.mu.Unlock()
	return err
}

func (o *Orchestrator) update(fn func(s *State)) {
	o.mu.Lock()
	fn(&o.state)
	o.mu.Unlock()
}

func (o *Orchestrator) adopt(sess *domain.Session) {
	o.mu.Lock()
	o.session = sess
	o.state.LoggedIn = true
	o.state.Account = sess.Account
	o.mu.Unlock()
}

// --- account ---

// SignUp creates the account. The user signs in after verifying the email.
func (o *Orchestrator) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Account, error) {
	var account *domain.Account
	err := o.run(func() error {
		var err error
		account, err = o.deps.Auth.SignUp(ctx, in)
		return err
	})
	return account, err
}

// SignIn rejects accounts whose email has not been verified.
func (o *Orchestrator) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var sess *domain.Session
	err := o.run(func() error {
		s, err := o.deps.Auth.SignIn(ctx, email, password)
		if err != nil {
			return err
		}
		if !o.deps.Verification.IsEmailVerified(ctx, s.Account.Email) {
			if err := o.deps.Auth.SignOut(ctx, s.AccessToken); err != nil {
				o.logger.Warn("Failed to revoke session of unverified account", zap.Error(err))
			}
			return domain.NewError(domain.CodeEmailNotVerified, "Email not confirmed", nil)
		}
		o.adopt(s)
		sess = s
		return nil
	})
	return sess, err
}

// RestoreSession signs the orchestrator in with an existing access token.
func (o *Orchestrator) RestoreSession(ctx context.Context, token string) (*domain.Session, error) {
	var sess *domain.Session
	err := o.run(func() error {
		s, err := o.deps.Auth.CurrentSession(ctx, token)
		if err != nil {
			return err
		}
		o.adopt(s)
		sess = s
		return nil
	})
	return sess, err
}

func (o *Orchestrator) SignOut(ctx context.Context) error {
	return o.run(func() error {
		o.mu.RLock()
		sess := o.session
		o.mu.RUnlock()
		if sess == nil {
			return nil
		}
		if err := o.deps.Auth.SignOut(ctx, sess.AccessToken); err != nil {
			return err
		}
		o.reset()
		return nil
	})
}

func (o *Orchestrator) ResetPassword(ctx context.Context, email string) error {
	return o.run(func() error {
		return o.deps.Auth.ResetPasswordForEmail(ctx, email)
	})
}

func (o *Orchestrator) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return o.run(func() error {
		return o.deps.Auth.ConfirmPasswordReset(ctx, token, newPassword)
	})
}

// RefreshProfile reloads the signed-in account.
func (o *Orchestrator) RefreshProfile(ctx context.Context) (*domain.Account, error) {
	var account *domain.Account
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		account, err = o.deps.Users.GetProfile(ctx, id)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.Account = account })
		return nil
	})
	return account, err
}

func (o *Orchestrator) UpdateProfile(ctx context.Context, patch domain.ProfileUpdate) (*domain.Account, error) {
	var account *domain.Account
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		account, err = o.deps.Users.UpdateProfile(ctx, id, patch)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.Account = account })
		return nil
	})
	return account, err
}

// --- verification ---

var verificationMessages = map[domain.VerificationStatus]string{
	domain.VerificationInvalid:  "인증 코드가 올바르지 않습니다.",
	domain.VerificationExpired:  "인증 코드가 만료되었습니다. 코드를 다시 요청해주세요.",
	domain.VerificationExceeded: "인증 시도 횟수를 초과했습니다. 코드를 다시 요청해주세요.",
}

func (o *Orchestrator) SendVerificationCode(ctx context.Context, email string) (*domain.SendResult, error) {
	var res *domain.SendResult
	err := o.run(func() error {
		var err error
		res, err = o.deps.Verification.Send(ctx, email)
		return err
	})
	return res, err
}

func (o *Orchestrator) ResendVerificationCode(ctx context.Context, email string) (*domain.SendResult, error) {
	var res *domain.SendResult
	err := o.run(func() error {
		var err error
		res, err = o.deps.Verification.Resend(ctx, email)
		return err
	})
	return res, err
}

// VerifyCode returns the challenge outcome. A failed outcome is not an error
// but its message is kept in LastError.
func (o *Orchestrator) VerifyCode(ctx context.Context, email, code string) (domain.VerificationStatus, error) {
	var status domain.VerificationStatus
	err := o.run(func() error {
		var err error
		status, err = o.deps.Verification.Verify(ctx, email, code)
		return err
	})
	if msg, ok := verificationMessages[status]; ok && err == nil {
		o.update(func(s *State) { s.LastError = msg })
	}
	return status, err
}

func (o *Orchestrator) IsEmailVerified(ctx context.Context, email string) bool {
	return o.deps.Verification.IsEmailVerified(ctx, email)
}

func (o *Orchestrator) VerificationStatus(ctx context.Context, email string) (domain.VerificationStatus, error) {
	var status domain.VerificationStatus
	err := o.run(func() error {
		var err error
		status, err = o.deps.Verification.Status(ctx, email)
		return err
	})
	return status, err
}

// --- questions ---

func (o *Orchestrator) LoadQuestions(ctx context.Context) ([]*domain.Question, error) {
	var qs []*domain.Question
	err := o.run(func() error {
		if _, err := o.accountID(); err != nil {
			return err
		}
		var err error
		qs, err = o.deps.Questions.List(ctx)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.Questions = qs })
		return nil
	})
	return qs, err
}

func (o *Orchestrator) AddQuestion(ctx context.Context, in domain.QuestionInput) (*domain.Question, error) {
	var q *domain.Question
	err := o.run(func() error {
		if _, err := o.accountID(); err != nil {
			return err
		}
		var err error
		q, err = o.deps.Questions.Add(ctx, in)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.Questions = append([]*domain.Question{q}, s.Questions...) })
		return nil
	})
	return q, err
}

func (o *Orchestrator) UpdateQuestion(ctx context.Context, id string, in domain.QuestionInput) (*domain.Question, error) {
	var q *domain.Question
	err := o.run(func() error {
		if _, err := o.accountID(); err != nil {
			return err
		}
		var err error
		q, err = o.deps.Questions.Update(ctx, id, in)
		if err != nil {
			return err
		}
		o.update(func(s *State) {
			for i, existing := range s.Questions {
				if existing.ID == id {
					s.Questions[i] = q
				}
			}
		})
		return nil
	})
	return q, err
}

func (o *Orchestrator) DeleteQuestion(ctx context.Context, id string) error {
	return o.run(func() error {
		if _, err := o.accountID(); err != nil {
			return err
		}
		if err := o.deps.Questions.Delete(ctx, id); err != nil {
			return err
		}
		o.update(func(s *State) {
			kept := s.Questions[:0:0]
			for _, q := range s.Questions {
				if q.ID != id {
					kept = append(kept, q)
				}
			}
			s.Questions = kept
		})
		return nil
	})
}

// UploadQuestions ingests a workbook and reloads the question list.
func (o *Orchestrator) UploadQuestions(ctx context.Context, r io.Reader) (*domain.UploadOutcome, error) {
	var out *domain.UploadOutcome
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		out, err = o.deps.Ingestion.Ingest(ctx, id, r)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.LastUpload = out })

		qs, err := o.deps.Questions.List(ctx)
		if err != nil {
			o.logger.Warn("Failed to reload questions after upload", zap.Error(err))
			return nil
		}
		o.update(func(s *State) { s.Questions = qs })
		return nil
	})
	return out, err
}

// --- interviews ---

func (o *Orchestrator) LoadHistory(ctx context.Context) ([]*domain.InterviewRecord, error) {
	var recs []*domain.InterviewRecord
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		recs, err = o.deps.Interviews.History(ctx, id)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.History = recs })
		return nil
	})
	return recs, err
}

func (o *Orchestrator) ScoreAnswer(ctx context.Context, sub domain.AnswerSubmission, groupID *string) (*domain.InterviewRecord, error) {
	var rec *domain.InterviewRecord
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		rec, err = o.deps.Interviews.ScoreAnswer(ctx, id, sub, groupID)
		if err != nil {
			return err
		}
		o.update(func(s *State) { s.History = append([]*domain.InterviewRecord{rec}, s.History...) })
		return nil
	})
	return rec, err
}

// RegenerateFeedback re-evaluates the stored record identified by
// (createdAt, questionID) of the signed-in account.
func (o *Orchestrator) RegenerateFeedback(ctx context.Context, createdAt time.Time, questionID, questionText string) (*domain.InterviewRecord, error) {
	var rec *domain.InterviewRecord
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		history, err := o.deps.Interviews.History(ctx, id)
		if err != nil {
			return err
		}
		var target *domain.InterviewRecord
		for _, r := range history {
			if r.QuestionID == questionID && r.CreatedAt.Equal(createdAt) {
				target = r
				break
			}
		}
		if target == nil {
			return domain.NewNotFoundError("Interview record not found")
		}

		rec, err = o.deps.Interviews.RegenerateFeedback(ctx, target, questionText)
		if err != nil {
			return err
		}
		for i, r := range history {
			if r == target {
				history[i] = rec
			}
		}
		o.update(func(s *State) { s.History = history })
		return nil
	})
	return rec, err
}

// CompleteInterview scores every answer concurrently and reloads the history.
// groupID is generated when empty and returned either way.
func (o *Orchestrator) CompleteInterview(ctx context.Context, answers []domain.AnswerSubmission, groupID string) (string, []*domain.InterviewRecord, error) {
	if groupID == "" {
		groupID = util.NewUUID()
	}
	var results []*domain.InterviewRecord
	err := o.run(func() error {
		id, err := o.accountID()
		if err != nil {
			return err
		}
		if len(answers) == 0 {
			return domain.ValidationErrors{domain.NewMissingFieldError("answers")}
		}

		var batchErr error
		results, batchErr = o.deps.Interviews.CompleteInterview(ctx, id, answers, groupID)

		history, err := o.deps.Interviews.History(ctx, id)
		if err != nil {
			o.logger.Warn("Failed to reload history after interview", zap.Error(err))
		} else {
			o.update(func(s *State) { s.History = history })
		}
		return batchErr
	})
	return groupID, results, err
}

// --- lifecycle ---

func (o *Orchestrator) reset() {
	o.mu.Lock()
	o.session = nil
	o.state = State{Loading: o.inflight > 0}
	o.mu.Unlock()
}

// Close drops the session state. Calling it more than once is harmless.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	wasClosed := o.closed
	o.closed = true
	o.mu.Unlock()
	if !wasClosed {
		o.reset()
	}
}
