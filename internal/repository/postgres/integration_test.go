//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alumnihub/membership-server/internal/model"
	repo "github.com/alumnihub/membership-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "membership_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/membership_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func makeAccount(email string) model.Account {
	return model.Account{
		ID:            uuid.New(),
		Name:          "Jordan Rahman",
		Email:         email,
		PasswordHash:  "$2a$10$notarealhashnotarealhashnotarealhash",
		Role:          model.RoleAlumni,
		Department:    "CSE",
		Batch:         "182",
		Status:        model.StatusPending,
		IDDocumentKey: uuid.NewString() + ".png",
	}
}

func TestAccountRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	accounts := repo.NewAccountRepository(conn)

	t.Run("create_and_lookup", func(t *testing.T) {
		a := makeAccount("lookup@example.com")
		saved, err := accounts.Create(ctx, a)
		require.NoError(t, err)
		require.Equal(t, a.ID, saved.ID)
		require.Equal(t, model.StatusPending, saved.Status)

		byEmail, err := accounts.GetByEmail(ctx, "LOOKUP@EXAMPLE.COM")
		require.NoError(t, err)
		require.Equal(t, a.ID, byEmail.ID)

		byID, err := accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, a.Email, byID.Email)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		a := makeAccount("dupe@example.com")
		_, err := accounts.Create(ctx, a)
		require.NoError(t, err)

		b := makeAccount("dupe@example.com")
		_, err = accounts.Create(ctx, b)
		require.ErrorIs(t, err, model.ErrDuplicateEmail)
	})

	t.Run("status_transitions_idempotent", func(t *testing.T) {
		a := makeAccount("transitions@example.com")
		_, err := accounts.Create(ctx, a)
		require.NoError(t, err)

		require.NoError(t, accounts.UpdateStatus(ctx, a.ID, model.StatusActive, model.ApproveFrom...))
		got, err := accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusActive, got.Status)

		// approve again: defined no-op
		require.NoError(t, accounts.UpdateStatus(ctx, a.ID, model.StatusActive, model.ApproveFrom...))
		got, err = accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusActive, got.Status)

		require.NoError(t, accounts.UpdateStatus(ctx, a.ID, model.StatusBlocked, model.BlockFrom...))
		got, err = accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusBlocked, got.Status)

		// approve on blocked leaves it blocked
		require.NoError(t, accounts.UpdateStatus(ctx, a.ID, model.StatusActive, model.ApproveFrom...))
		got, err = accounts.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusBlocked, got.Status)
	})

	t.Run("update_status_missing_account", func(t *testing.T) {
		err := accounts.UpdateStatus(ctx, uuid.New(), model.StatusActive, model.ApproveFrom...)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("list_filters", func(t *testing.T) {
		a := makeAccount("filterme@example.com")
		a.Name = "Distinct Name For Filter"
		_, err := accounts.Create(ctx, a)
		require.NoError(t, err)

		listed, err := accounts.List(ctx, model.AccountFilter{Status: model.StatusPending, Search: "distinct name"})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, a.ID, listed[0].ID)

		listed, err = accounts.List(ctx, model.AccountFilter{Status: model.StatusBlocked, Search: "distinct name"})
		require.NoError(t, err)
		require.Empty(t, listed)
	})

	t.Run("search_matches_wildcards_literally", func(t *testing.T) {
		a := makeAccount("percent@example.com")
		a.Name = "Class of '99 (100% attendance)"
		_, err := accounts.Create(ctx, a)
		require.NoError(t, err)

		listed, err := accounts.List(ctx, model.AccountFilter{Search: "100% attendance"})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, a.ID, listed[0].ID)

		// a bare % is a literal character, not match-everything
		listed, err = accounts.List(ctx, model.AccountFilter{Search: "%"})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, a.ID, listed[0].ID)

		listed, err = accounts.List(ctx, model.AccountFilter{Search: "100_ attendance"})
		require.NoError(t, err)
		require.Empty(t, listed)
	})
}

func TestResetTokenRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	accounts := repo.NewAccountRepository(conn)
	tokens := repo.NewResetTokenRepository(conn)

	a := makeAccount("reset@example.com")
	_, err = accounts.Create(ctx, a)
	require.NoError(t, err)

	t.Run("replace_supersedes", func(t *testing.T) {
		first := model.ResetToken{Token: "token-one", Email: a.Email, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, tokens.Replace(ctx, first))

		second := model.ResetToken{Token: "token-two", Email: a.Email, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, tokens.Replace(ctx, second))

		_, err := tokens.GetByToken(ctx, "token-one")
		require.ErrorIs(t, err, model.ErrTokenNotFound)

		got, err := tokens.GetByToken(ctx, "token-two")
		require.NoError(t, err)
		require.Equal(t, a.Email, got.Email)
	})

	t.Run("consume_updates_credential", func(t *testing.T) {
		require.NoError(t, tokens.Consume(ctx, "token-two", "$2a$10$replacedreplacedreplacedreplaced", time.Now()))

		got, err := accounts.GetByEmail(ctx, a.Email)
		require.NoError(t, err)
		require.Equal(t, "$2a$10$replacedreplacedreplacedreplaced", got.PasswordHash)

		// single use
		err = tokens.Consume(ctx, "token-two", "whatever", time.Now())
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("consume_expired_deletes", func(t *testing.T) {
		expired := model.ResetToken{Token: "token-old", Email: a.Email, ExpiresAt: time.Now().Add(-time.Minute)}
		require.NoError(t, tokens.Replace(ctx, expired))

		err := tokens.Consume(ctx, "token-old", "hash", time.Now())
		require.ErrorIs(t, err, model.ErrTokenExpired)

		err = tokens.Consume(ctx, "token-old", "hash", time.Now())
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("concurrent_requests_leave_one_token", func(t *testing.T) {
		b := makeAccount("race-request@example.com")
		_, err := accounts.Create(ctx, b)
		require.NoError(t, err)

		expires := time.Now().Add(time.Hour)
		errs := make(chan error, 2)
		for _, tok := range []string{"race-token-a", "race-token-b"} {
			go func(tok string) {
				errs <- tokens.Replace(ctx, model.ResetToken{Token: tok, Email: b.Email, ExpiresAt: expires})
			}(tok)
		}
		require.NoError(t, <-errs)
		require.NoError(t, <-errs)

		var live int
		for _, tok := range []string{"race-token-a", "race-token-b"} {
			_, err := tokens.GetByToken(ctx, tok)
			if err == nil {
				live++
			} else {
				require.ErrorIs(t, err, model.ErrTokenNotFound)
			}
		}
		require.Equal(t, 1, live)
	})

	t.Run("concurrent_consume_single_winner", func(t *testing.T) {
		b := makeAccount("race-consume@example.com")
		_, err := accounts.Create(ctx, b)
		require.NoError(t, err)

		rt := model.ResetToken{Token: "token-contested", Email: b.Email, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, tokens.Replace(ctx, rt))

		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				errs <- tokens.Consume(ctx, "token-contested", "$2a$10$contestedcontestedcontested", time.Now())
			}()
		}

		var wins, losses int
		for i := 0; i < 2; i++ {
			switch err := <-errs; {
			case err == nil:
				wins++
			default:
				require.ErrorIs(t, err, model.ErrTokenNotFound)
				losses++
			}
		}
		require.Equal(t, 1, wins)
		require.Equal(t, 1, losses)

		got, err := accounts.GetByEmail(ctx, b.Email)
		require.NoError(t, err)
		require.Equal(t, "$2a$10$contestedcontestedcontested", got.PasswordHash)
	})

	t.Run("delete_account_cascades", func(t *testing.T) {
		b := makeAccount("cascade@example.com")
		_, err := accounts.Create(ctx, b)
		require.NoError(t, err)

		rt := model.ResetToken{Token: "token-cascade", Email: b.Email, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, tokens.Replace(ctx, rt))

		require.NoError(t, accounts.Delete(ctx, b.ID))

		_, err = tokens.GetByToken(ctx, "token-cascade")
		require.ErrorIs(t, err, model.ErrTokenNotFound)
	})
}
