package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/security"
)

// RegistrationInput carries the submitted membership application, including
// the raw identity-document upload.
type RegistrationInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	Department      string
	Batch           string
	DocumentName    string
	DocumentData    []byte
}

type Registration struct {
	accounts  model.AccountStore
	documents model.DocumentStore
	policy    model.UploadPolicy
	logger    *logger.Logger
}

func NewRegistration(
	accounts model.AccountStore,
	documents model.DocumentStore,
	policy model.UploadPolicy,
	logger *logger.Logger,
) *Registration {
	return &Registration{
		accounts:  accounts,
		documents: documents,
		policy:    policy,
		logger:    logger,
	}
}

// Register validates the application, stores the identity document and
// creates the account in pending status. Every violated rule is collected
// before returning, so the applicant sees the full list at once.
func (r *Registration) Register(ctx context.Context, in RegistrationInput) (model.Account, error) {
	r.logger.Debug("Registration service: processing application",
		"email", in.Email)

	email := strings.ToLower(strings.TrimSpace(in.Email))

	vErr := &model.ValidationError{}

	fieldRules := []struct {
		field string
		err   error
	}{
		{"name", validation.Validate(in.Name, validation.Required, validation.Length(1, 255))},
		{"email", validation.Validate(email, validation.Required, is.Email)},
		{"password", validation.Validate(in.Password, validation.Required, validation.Length(6, 100))},
		{"confirm_password", validation.Validate(in.ConfirmPassword, validation.By(matchesString(in.Password)))},
		{"role", validation.Validate(in.Role, validation.Required, validation.In(string(model.RoleStudent), string(model.RoleAlumni)))},
		{"department", validation.Validate(in.Department, validation.Required)},
	}
	for _, rule := range fieldRules {
		if rule.err != nil {
			vErr.Add(rule.field + ": " + rule.err.Error())
		}
	}

	// Batch identifies the graduating class and only applies to alumni.
	if in.Role == string(model.RoleAlumni) {
		if err := validation.Validate(in.Batch, validation.Required); err != nil {
			vErr.Add("batch: " + err.Error())
		}
	}

	if len(in.DocumentData) == 0 {
		vErr.Add("id_document: cannot be blank")
	} else if err := r.policy.Check(in.DocumentName, int64(len(in.DocumentData))); err != nil {
		vErr.Add("id_document: " + err.Error())
	}

	// Duplicate email is only checked once every static rule passes, so a
	// rejected submission never reveals whether an address is registered.
	if !vErr.HasCauses() {
		existing, err := r.accounts.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			r.logger.Error("Registration service: failed to get account by email",
				"email", email,
				"error", err.Error())
			return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
		}
		if err == nil && existing.ID != uuid.Nil {
			vErr.Add("email: " + model.ErrDuplicateEmail.Error())
		}
	}

	if vErr.HasCauses() {
		return model.Account{}, vErr
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	documentKey, err := r.documents.Store(ctx, in.DocumentName, in.DocumentData)
	if err != nil {
		r.logger.Error("Registration service: failed to store identity document",
			"email", email,
			"error", err.Error())
		return model.Account{}, vErr.Add("id_document: " + err.Error())
	}

	account := model.Account{
		ID:            uuid.New(),
		Name:          in.Name,
		Email:         email,
		PasswordHash:  passwordHash,
		Role:          model.AccountRole(in.Role),
		Department:    in.Department,
		Batch:         in.Batch,
		Status:        model.StatusPending,
		IDDocumentKey: documentKey,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	created, err := r.accounts.Create(ctx, account)
	if errors.Is(err, model.ErrDuplicateEmail) {
		// Lost a race with a concurrent registration for the same address.
		return model.Account{}, vErr.Add("email: " + model.ErrDuplicateEmail.Error())
	}
	if err != nil {
		r.logger.Error("Registration service: failed to create account",
			"email", email,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.Info("Registration service: application accepted",
		"email", email,
		"account_id", created.ID)

	return created, nil
}

func matchesString(want string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != want {
			return errors.New("values must match")
		}
		return nil
	}
}
