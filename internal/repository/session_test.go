package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"
)

func TestSessionRotate(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{
			name:         "winner swaps the token pair",
			rowsAffected: 1,
			wantErr:      nil,
		},
		{
			name:         "loser of a concurrent refresh sees no row",
			rowsAffected: 0,
			wantErr:      gorm.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSessionRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "sessions" SET`)).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			err := repo.Rotate(context.Background(), 42, "old-jti", "new-jti", "new-refresh", time.Now().Add(time.Hour))
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Fatalf("Rotate() error = %v, want %v", err, tt.wantErr)
			}

			expectationsMet(t, mock)
		})
	}
}

func TestSessionRevokeAllForUser(t *testing.T) {
	t.Run("excludes the acting session", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSessionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "sessions" SET`)).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint(7), "active", "keep-me").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		count, err := repo.RevokeAllForUser(context.Background(), 7, "keep-me")
		if err != nil {
			t.Fatalf("RevokeAllForUser() error = %v", err)
		}
		if count != 3 {
			t.Errorf("RevokeAllForUser() count = %d, want 3", count)
		}

		expectationsMet(t, mock)
	})

	t.Run("revokes everything when no exclusion", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSessionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "sessions" SET`)).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint(7), "active").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		count, err := repo.RevokeAllForUser(context.Background(), 7, "")
		if err != nil {
			t.Fatalf("RevokeAllForUser() error = %v", err)
		}
		if count != 2 {
			t.Errorf("RevokeAllForUser() count = %d, want 2", count)
		}

		expectationsMet(t, mock)
	})
}

func TestSessionFindActiveByTokenID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_id", "refresh_token", "status", "expires_at"}).
		AddRow(11, 7, "jti-abc", "refresh-abc", "active", now.Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sessions"`)).
		WithArgs("jti-abc", "active", 1).
		WillReturnRows(rows)

	session, err := repo.FindActiveByTokenID(context.Background(), "jti-abc")
	if err != nil {
		t.Fatalf("FindActiveByTokenID() error = %v", err)
	}
	if session.UserID != 7 {
		t.Errorf("session.UserID = %d, want 7", session.UserID)
	}
	if session.TokenID != "jti-abc" {
		t.Errorf("session.TokenID = %q, want %q", session.TokenID, "jti-abc")
	}

	expectationsMet(t, mock)
}

func TestSessionFindActiveByTokenIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sessions"`)).
		WithArgs("gone", "active", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindActiveByTokenID(context.Background(), "gone")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("FindActiveByTokenID() error = %v, want record not found", err)
	}

	expectationsMet(t, mock)
}

func TestSessionFindActiveByRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_id", "refresh_token", "status", "expires_at"}).
		AddRow(11, 7, "jti-abc", "refresh-abc", "active", now.Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sessions"`)).
		WithArgs("refresh-abc", "active", 1).
		WillReturnRows(rows)

	session, err := repo.FindActiveByRefreshToken(context.Background(), "refresh-abc")
	if err != nil {
		t.Fatalf("FindActiveByRefreshToken() error = %v", err)
	}
	if session.ID != 11 || session.TokenID != "jti-abc" {
		t.Errorf("wrong session resolved: id=%d token_id=%q", session.ID, session.TokenID)
	}

	expectationsMet(t, mock)
}

func TestSessionTouchLastActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "sessions" SET`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "jti-abc", "active").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.TouchLastActive(context.Background(), "jti-abc"); err != nil {
		t.Fatalf("TouchLastActive() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestSessionPurgeExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "sessions"`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	purged, err := repo.PurgeExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if purged != 5 {
		t.Errorf("PurgeExpired() purged = %d, want 5", purged)
	}

	expectationsMet(t, mock)
}

func TestSessionPurgeExpiredNothingToDo(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "sessions"`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	purged, err := repo.PurgeExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if purged != 0 {
		t.Errorf("PurgeExpired() purged = %d, want 0", purged)
	}

	expectationsMet(t, mock)
}
