package user

import (
	"context"
	"errors"
	"testing"

	"shopstack/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	users         map[int64]domain.User
	nextID        int64
	usernameTaken bool
	emailTaken    bool
	deactivatedID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[int64]domain.User{}, nextID: 1}
}

func (s *stubRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return &u, nil
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("User", "id", id)
	}
	return &u, nil
}

func (s *stubRepo) GetActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Active {
			return &u, nil
		}
	}
	return nil, domain.NotFound("User", "username", username)
}

func (s *stubRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubRepo) ListWithAddresses(ctx context.Context) ([]domain.User, error) {
	return s.List(ctx)
}

func (s *stubRepo) Update(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.users[u.ID]; !ok {
		return nil, domain.NotFound("User", "id", u.ID)
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *stubRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := s.users[id]
	if !ok {
		return domain.NotFound("User", "id", id)
	}
	u.Active = active
	s.users[id] = u
	if !active {
		s.deactivatedID = id
	}
	return nil
}

func (s *stubRepo) ExistsByUsername(context.Context, string) (bool, error) {
	return s.usernameTaken, nil
}

func (s *stubRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return s.emailTaken, nil
}

func TestCreate_HashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	u, err := svc.Create(context.Background(), CreateInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "s3cretpw",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !u.Active {
		t.Fatalf("expected new user active")
	}
	if u.PasswordHash == "s3cretpw" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cretpw")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestCreate_RejectsTakenUsernameAndEmail(t *testing.T) {
	repo := newStubRepo()
	repo.usernameTaken = true
	svc := New(repo)

	_, err := svc.Create(context.Background(), CreateInput{Username: "ada", Email: "ada@example.com", Password: "s3cretpw"})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate username, got %v", err)
	}

	repo.usernameTaken = false
	repo.emailTaken = true
	_, err = svc.Create(context.Background(), CreateInput{Username: "ada", Email: "ada@example.com", Password: "s3cretpw"})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestCreate_ValidatesInput(t *testing.T) {
	svc := New(newStubRepo())

	var validation domain.ValidationError
	_, err := svc.Create(context.Background(), CreateInput{Username: "", Email: "not-an-email", Password: "ok"})
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := validation[field]; !ok {
			t.Fatalf("expected %s in validation errors, got %v", field, validation)
		}
	}
}

func TestUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "s3cretpw",
		FirstName: "Ada",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	phone := "555-0100"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("expected phone updated, got %q", updated.Phone)
	}
	if updated.FirstName != "Ada" || updated.Email != "ada@example.com" {
		t.Fatalf("untouched fields must survive, got %+v", updated)
	}
}

func TestDeactivate_SoftDeletes(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	created, err := svc.Create(context.Background(), CreateInput{Username: "ada", Email: "ada@example.com", Password: "s3cretpw"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if repo.deactivatedID != created.ID {
		t.Fatalf("expected soft delete of user %d", created.ID)
	}

	if err := svc.Deactivate(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found for missing user, got %v", err)
	}
}
