package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/token"
	dErrors "github.com/mannyservice91-lab/cuba-visa-backend/pkg/domain-errors"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/email"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/identity-mocks.go -package=mocks Lockout,ApplicationRemover

// Lockout throttles failed logins per email.
type Lockout interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (locked bool, err error)
	Clear(ctx context.Context, email string) error
}

// ApplicationRemover deletes all applications owned by a user. Deleting a
// user cascades through this before the user record goes away.
type ApplicationRemover interface {
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// Service owns accounts and credentials for both principal kinds.
type Service struct {
	users        UserStore
	admins       AdminStore
	verifier     *VerifierChain
	tokens       *token.Service
	lockout      Lockout
	mail         email.Sender
	auditLog     audit.Publisher
	applications ApplicationRemover
	logger       *slog.Logger
}

func NewService(
	users UserStore,
	admins AdminStore,
	tokens *token.Service,
	lockout Lockout,
	mail email.Sender,
	auditLog audit.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		admins:   admins,
		verifier: NewVerifierChain(),
		tokens:   tokens,
		lockout:  lockout,
		mail:     mail,
		auditLog: auditLog,
		logger:   logger,
	}
}

// SetApplicationRemover wires the cascade dependency after construction;
// identity and applications reference each other at the service level.
func (s *Service) SetApplicationRemover(r ApplicationRemover) {
	s.applications = r
}

// RegisterUser creates an End User account and sends the verification
// email.
func (s *Service) RegisterUser(ctx context.Context, params RegisterUserParams) (*User, error) {
	now := time.Now().UTC()
	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &User{
		ID:             uuid.NewString(),
		Email:          strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash:   hash,
		FullName:       params.FullName,
		Phone:          params.Phone,
		PassportNumber: params.PassportNumber,
		Residence:      params.Residence,
		VerifyToken:    uuid.NewString(),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if user.FullName == "" {
		user.FullName = email.DeriveNameFromEmail(user.Email)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if err := s.mail.Send(ctx, email.Message{
		To:      user.Email,
		Subject: "Confirma tu correo",
		Body:    fmt.Sprintf("Hola %s, usa este código para verificar tu correo: %s", user.FullName, user.VerifyToken),
	}); err != nil {
		// Registration already succeeded; verification can be re-sent.
		s.logger.WarnContext(ctx, "failed to send verification email",
			"user_id", user.ID,
			"error", err,
		)
	}

	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionUserRegistered,
		ActorID: user.ID,
		Subject: user.Email,
	})
	return user, nil
}

// VerifyEmail marks the account behind the one-time token as verified.
func (s *Service) VerifyEmail(ctx context.Context, verifyToken string) (*User, error) {
	user, err := s.users.FindByVerifyToken(ctx, verifyToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "invalid verification token")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up verification token")
	}

	user.IsVerified = true
	user.VerifyToken = ""
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify user")
	}

	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionUserVerified,
		ActorID: user.ID,
		Subject: user.Email,
	})
	return user, nil
}

// LoginUser authenticates an End User and issues a session token.
func (s *Service) LoginUser(ctx context.Context, emailAddr, password string) (*User, string, error) {
	if err := s.checkLockout(ctx, emailAddr); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", s.failLogin(ctx, token.KindUser, emailAddr)
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if !user.IsActive {
		return nil, "", s.failLogin(ctx, token.KindUser, emailAddr)
	}

	ok, upgraded := s.verifier.Verify(password, user.PasswordHash)
	if !ok {
		return nil, "", s.failLogin(ctx, token.KindUser, emailAddr)
	}
	if upgraded != "" {
		user.PasswordHash = upgraded
		user.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, user); err != nil {
			// The login still succeeds; migration retries next time.
			s.logger.WarnContext(ctx, "failed to migrate legacy credential",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	signed, err := s.tokens.Issue(user.ID, user.Email, token.KindUser, 0)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	_ = s.lockout.Clear(ctx, emailAddr)
	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionLoginSucceeded,
		ActorID: user.ID,
		Subject: user.Email,
		Detail:  map[string]string{"kind": string(token.KindUser)},
	})
	return user, signed, nil
}

// LoginAdmin authenticates an Admin, records last login, and issues a
// session token.
func (s *Service) LoginAdmin(ctx context.Context, emailAddr, password string) (*Admin, string, error) {
	if err := s.checkLockout(ctx, emailAddr); err != nil {
		return nil, "", err
	}

	admin, err := s.admins.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", s.failLogin(ctx, token.KindAdmin, emailAddr)
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up admin")
	}
	if !admin.IsActive {
		return nil, "", s.failLogin(ctx, token.KindAdmin, emailAddr)
	}

	ok, upgraded := s.verifier.Verify(password, admin.PasswordHash)
	if !ok {
		return nil, "", s.failLogin(ctx, token.KindAdmin, emailAddr)
	}
	if upgraded != "" {
		admin.PasswordHash = upgraded
	}

	now := time.Now().UTC()
	admin.LastLoginAt = &now
	if err := s.admins.Update(ctx, admin); err != nil {
		s.logger.WarnContext(ctx, "failed to record admin login",
			"admin_id", admin.ID,
			"error", err,
		)
	}

	signed, err := s.tokens.Issue(admin.ID, admin.Email, token.KindAdmin, 0)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	_ = s.lockout.Clear(ctx, emailAddr)
	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionLoginSucceeded,
		ActorID: admin.ID,
		Subject: admin.Email,
		Detail:  map[string]string{"kind": string(token.KindAdmin)},
	})
	return admin, signed, nil
}

func (s *Service) checkLockout(ctx context.Context, emailAddr string) error {
	blocked, err := s.lockout.Blocked(ctx, emailAddr)
	if err != nil {
		// Fail open: an unreachable lockout store must not block logins.
		s.logger.WarnContext(ctx, "lockout check failed", "error", err)
		return nil
	}
	if blocked {
		return dErrors.New(dErrors.CodeUnauthorized, "too many failed attempts, try again later")
	}
	return nil
}

func (s *Service) failLogin(ctx context.Context, kind token.PrincipalKind, emailAddr string) error {
	locked, err := s.lockout.RecordFailure(ctx, emailAddr)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record login failure", "error", err)
	}
	action := audit.ActionLoginFailed
	if locked {
		action = audit.ActionLoginLocked
	}
	s.auditLog.Emit(ctx, audit.Event{
		Action:  action,
		Subject: strings.ToLower(strings.TrimSpace(emailAddr)),
		Detail:  map[string]string{"kind": string(kind)},
	})
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// GetUser fetches one user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}

// ListUsers returns all users, newest first (admin view).
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// UpdateProfile applies a partial patch to the user's profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.PassportNumber != nil {
		user.PassportNumber = *patch.PassportNumber
	}
	if patch.Residence != nil {
		user.Residence = *patch.Residence
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return user, nil
}

// DeleteUser removes a user and cascades over their applications first.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if s.applications != nil {
		if _, err := s.applications.DeleteByUser(ctx, userID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user applications")
		}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}

	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionUserDeleted,
		ActorID: actorID,
		Subject: user.Email,
	})
	return nil
}

// CreateAdmin creates a new admin account. The transport layer restricts
// this to superadmins; the service enforces no admin may self-elevate.
func (s *Service) CreateAdmin(ctx context.Context, actorID string, params CreateAdminParams) (*Admin, error) {
	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	admin := &Admin{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash: hash,
		FullName:     params.FullName,
		IsActive:     true,
		IsSuperAdmin: params.SuperAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin")
	}

	s.auditLog.Emit(ctx, audit.Event{
		Action:  audit.ActionAdminCreated,
		ActorID: actorID,
		Subject: admin.Email,
	})
	return admin, nil
}

// BootstrapAdmin creates the first superadmin while no admin exists.
// Subsequent calls fail with conflict, making initialization idempotent
// for callers that treat conflict as already-done.
func (s *Service) BootstrapAdmin(ctx context.Context, params CreateAdminParams) (*Admin, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count admins")
	}
	if count > 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "an admin already exists")
	}
	params.SuperAdmin = true
	return s.CreateAdmin(ctx, "", params)
}

// ListAdmins returns all admin accounts (superadmin view).
func (s *Service) ListAdmins(ctx context.Context) ([]*Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list admins")
	}
	return admins, nil
}

// ResolveUser re-resolves a token subject to an active user. Tokens naming
// deleted or deactivated principals are rejected.
func (s *Service) ResolveUser(ctx context.Context, id string) (*User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "principal not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve principal")
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "principal inactive")
	}
	return user, nil
}

// ResolveAdmin re-resolves a token subject to an active admin.
func (s *Service) ResolveAdmin(ctx context.Context, id string) (*Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "principal not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve principal")
	}
	if !admin.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "principal inactive")
	}
	return admin, nil
}
