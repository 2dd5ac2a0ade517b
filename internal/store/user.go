package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
	Emails     *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection("users"),
		Emails:     client.Collection("user_emails"),
	}
}

// emailKey is the id of the email reservation document. Emails match exactly.
func emailKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

type emailReservation struct {
	UID string `firestore:"uid"`
}

// Create writes the user and reserves its email in one transaction, so two
// registrations racing on the same email cannot both succeed.
func (us *userStore) Create(ctx context.Context, user *models.User) error {
	emailRef := us.Emails.Doc(emailKey(user.Email))
	userRef := us.Collection.Doc(user.ID)

	err := us.Client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		if err := t.Create(emailRef, emailReservation{UID: user.ID}); err != nil {
			return err
		}
		return t.Create(userRef, user)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("email already registered")
		}
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (us *userStore) Get(ctx context.Context, uid string) (*models.User, error) {
	doc, err := us.Collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

func (us *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	doc, err := us.Emails.Doc(emailKey(email)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to look up email", err)
	}

	var res emailReservation
	if err := doc.DataTo(&res); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse email reservation", err)
	}
	return us.Get(ctx, res.UID)
}
