package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/alumnihub/membership-server/internal/mocks"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/testutil"
)

func validInput() RegistrationInput {
	return RegistrationInput{
		Name:            "Jordan Rivera",
		Email:           "jordan@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            string(model.RoleAlumni),
		Department:      "Computer Science",
		Batch:           "2019",
		DocumentName:    "id.jpg",
		DocumentData:    []byte("jpegdata"),
	}
}

func TestRegistration_Register_Success(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	accounts.On("GetByEmail", mock.Anything, "jordan@example.com").Return(model.Account{}, model.ErrNotFound)
	documents.On("Store", mock.Anything, "id.jpg", []byte("jpegdata")).Return("abc123.jpg", nil)
	accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
		return a.Email == "jordan@example.com" &&
			a.Status == model.StatusPending &&
			a.IDDocumentKey == "abc123.jpg" &&
			a.PasswordHash != "" && a.PasswordHash != "secret1"
	})).Return(model.Account{ID: uuid.New(), Status: model.StatusPending}, nil)

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	created, err := r.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)
	accounts.AssertExpectations(t)
	documents.AssertExpectations(t)
}

func TestRegistration_Register_CollectsAllFailures(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	in := RegistrationInput{
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
		Role:            "staff",
	}
	_, err := r.Register(ctx, in)
	require.Error(t, err)

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)

	// Every violated rule is reported, in the order the rules are declared.
	var fields []string
	for _, cause := range vErr.Causes {
		fields = append(fields, strings.SplitN(cause, ":", 2)[0])
	}
	assert.Equal(t, []string{"name", "email", "password", "confirm_password", "role", "department", "id_document"}, fields)

	// No lookups or storage writes happen for an invalid application.
	accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	documents.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistration_Register_BatchRequiredForAlumniOnly(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		role      string
		batch     string
		wantCause bool
	}{
		{name: "alumni without batch", role: string(model.RoleAlumni), batch: "", wantCause: true},
		{name: "alumni with batch", role: string(model.RoleAlumni), batch: "2020", wantCause: false},
		{name: "student without batch", role: string(model.RoleStudent), batch: "", wantCause: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &servermocks.AccountStore{}
			documents := &servermocks.DocumentStore{}
			accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
			documents.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("key.jpg", nil).Maybe()
			accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{ID: uuid.New()}, nil).Maybe()

			r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

			in := validInput()
			in.Role = tt.role
			in.Batch = tt.batch

			_, err := r.Register(ctx, in)
			if tt.wantCause {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Causes, "batch: cannot be blank")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRegistration_Register_DuplicateEmailReportedLast(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	accounts.On("GetByEmail", mock.Anything, "jordan@example.com").Return(model.Account{ID: uuid.New()}, nil)

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	_, err := r.Register(ctx, validInput())
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Causes, 1)
	assert.Equal(t, "email: "+model.ErrDuplicateEmail.Error(), vErr.Causes[len(vErr.Causes)-1])
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistration_Register_DuplicateHiddenWhenFieldsInvalid(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	accounts.On("GetByEmail", mock.Anything, "jordan@example.com").Return(model.Account{ID: uuid.New()}, nil)

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	in := validInput()
	in.Name = ""

	_, err := r.Register(ctx, in)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)

	// A submission failing static checks must not reveal that the address
	// is already registered, so the store is never consulted.
	assert.Equal(t, []string{"name: cannot be blank"}, vErr.Causes)
	accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestRegistration_Register_DocumentPolicy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		data     []byte
		cause    string
	}{
		{name: "missing document", filename: "", data: nil, cause: "id_document: cannot be blank"},
		{name: "bad extension", filename: "id.pdf", data: []byte("x"), cause: "id_document: file type \"pdf\" is not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &servermocks.AccountStore{}
			documents := &servermocks.DocumentStore{}

			r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

			in := validInput()
			in.DocumentName = tt.filename
			in.DocumentData = tt.data

			_, err := r.Register(ctx, in)
			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Len(t, vErr.Causes, 1)
			assert.Contains(t, vErr.Causes[0], strings.SplitN(tt.cause, " (", 2)[0])
		})
	}
}

func TestRegistration_Register_StorageFailureIsValidationCause(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	documents.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket unavailable"))

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	_, err := r.Register(ctx, validInput())
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Causes, "id_document: bucket unavailable")
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistration_Register_CreateRaceMapsToDuplicate(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	accounts.On("GetByEmail", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrNotFound)
	documents.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("key.jpg", nil)
	accounts.On("Create", mock.Anything, mock.Anything).Return(model.Account{}, model.ErrDuplicateEmail)

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	_, err := r.Register(ctx, validInput())
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Causes, "email: "+model.ErrDuplicateEmail.Error())
}

func TestRegistration_Register_EmailLowercased(t *testing.T) {
	ctx := context.Background()
	accounts := &servermocks.AccountStore{}
	documents := &servermocks.DocumentStore{}

	accounts.On("GetByEmail", mock.Anything, "jordan@example.com").Return(model.Account{}, model.ErrNotFound)
	documents.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("key.jpg", nil)
	accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
		return a.Email == "jordan@example.com"
	})).Return(model.Account{ID: uuid.New()}, nil)

	r := NewRegistration(accounts, documents, model.DefaultUploadPolicy(), testutil.MakeNoopLogger())

	in := validInput()
	in.Email = "  Jordan@Example.COM "

	_, err := r.Register(ctx, in)
	require.NoError(t, err)
	accounts.AssertExpectations(t)
}
