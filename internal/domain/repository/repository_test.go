package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"todo_app/internal/common"
	"todo_app/internal/domain/model"
	"todo_app/internal/domain/repository"
	"todo_app/internal/testutil"
)

func createUser(t *testing.T, users repository.UserRepository, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:          username + "@example.com",
		Username:       username,
		FirstName:      "First",
		LastName:       "Last",
		HashedPassword: "$2a$04$placeholder",
		IsActive:       true,
		Role:           model.RoleUser,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := repository.NewSQLUserRepository(db)

	alice := createUser(t, users, "alice")
	if alice.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	byName, err := users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if byName.ID != alice.ID || byName.Email != "alice@example.com" || !byName.IsActive || byName.PhoneNumber != nil {
		t.Errorf("FindByUsername = %+v", byName)
	}

	if _, err := users.FindByUsername(ctx, "nobody"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("FindByUsername(nobody) = %v, want ErrNotFound", err)
	}
	if _, err := users.FindByID(ctx, nil, 9999); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("FindByID(9999) = %v, want ErrNotFound", err)
	}

	dup := &model.User{Email: "other@example.com", Username: "alice", FirstName: "A", LastName: "B", HashedPassword: "x", Role: "user"}
	if err := users.Create(ctx, dup); !errors.Is(err, common.ErrConflict) {
		t.Errorf("duplicate username Create = %v, want ErrConflict", err)
	}

	if err := users.UpdatePhoneNumber(ctx, nil, alice.ID, "5551234"); err != nil {
		t.Fatalf("UpdatePhoneNumber: %v", err)
	}
	if err := users.UpdatePassword(ctx, nil, alice.ID, "$2a$04$other"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, err := users.FindByID(ctx, nil, alice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.PhoneNumber == nil || *got.PhoneNumber != "5551234" {
		t.Errorf("PhoneNumber = %v, want 5551234", got.PhoneNumber)
	}
	if got.HashedPassword != "$2a$04$other" {
		t.Errorf("HashedPassword = %q", got.HashedPassword)
	}

	if err := users.UpdatePhoneNumber(ctx, nil, 9999, "5551234"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("UpdatePhoneNumber(9999) = %v, want ErrNotFound", err)
	}
}

func TestTodoRepositoryOwnerScoping(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := repository.NewSQLUserRepository(db)
	todos := repository.NewSQLTodoRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	mine := &model.Todo{Title: "buy milk", Description: "2%", Priority: 3, OwnerID: alice.ID}
	if err := todos.Create(ctx, mine); err != nil {
		t.Fatalf("Create: %v", err)
	}
	theirs := &model.Todo{Title: "walk dog", Description: "twice", Priority: 1, Completed: true, OwnerID: bob.ID}
	if err := todos.Create(ctx, theirs); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := todos.ListByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 1 || list[0] != *mine {
		t.Errorf("ListByOwner(alice) = %+v, want [%+v]", list, *mine)
	}

	all, err := todos.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAll returned %d todos, want 2", len(all))
	}

	if _, err := todos.FindByIDForOwner(ctx, nil, theirs.ID, alice.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("FindByIDForOwner(bob's todo, alice) = %v, want ErrNotFound", err)
	}
	if got, err := todos.FindByIDForOwner(ctx, nil, theirs.ID, bob.ID); err != nil || got.OwnerID != bob.ID {
		t.Errorf("FindByIDForOwner(bob's todo, bob) = %+v, %v", got, err)
	}

	hijack := *theirs
	hijack.OwnerID = alice.ID
	hijack.Title = "hijacked"
	if err := todos.Update(ctx, nil, &hijack); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Update of another owner's todo = %v, want ErrNotFound", err)
	}
	if err := todos.DeleteForOwner(ctx, theirs.ID, alice.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("DeleteForOwner of another owner's todo = %v, want ErrNotFound", err)
	}

	ownerID, err := todos.Delete(ctx, theirs.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ownerID != bob.ID {
		t.Errorf("Delete returned owner %d, want %d", ownerID, bob.ID)
	}
	if _, err := todos.Delete(ctx, theirs.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := repository.NewSQLUserRepository(db)
	alice := createUser(t, users, "alice")

	boom := errors.New("boom")
	err := repository.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := users.UpdatePassword(ctx, tx, alice.ID, "rolled-back"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx = %v, want boom", err)
	}

	got, err := users.FindByID(ctx, nil, alice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.HashedPassword == "rolled-back" {
		t.Error("update inside a failed transaction was committed")
	}
}
