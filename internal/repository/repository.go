package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"semaphore/booking/internal/docstore"
	"semaphore/booking/internal/model"
)

// SettingsCollection holds the portal settings documents.
const SettingsCollection = "settings"

const (
	collectionUsers          = "users"
	collectionStudents       = "students"
	collectionSettings       = SettingsCollection
	collectionOfficeAccounts = "officeAccounts"
)

// UncachedCollections are written by the admin tool behind the portal's
// back, so a document cache must never serve them.
func UncachedCollections() []string {
	return []string{collectionOfficeAccounts}
}

type Store struct {
	docs            docstore.Store
	validate        *validator.Validate
	officeListDoc   string
	officeListField string
}

func NewStore(docs docstore.Store, officeListDoc, officeListField string) *Store {
	return &Store{
		docs:            docs,
		validate:        validator.New(),
		officeListDoc:   officeListDoc,
		officeListField: officeListField,
	}
}

// Profile returns docstore.ErrNotFound when the user has no profile and
// model.ErrUnknownRole when the stored role is outside the known set.
func (s *Store) Profile(ctx context.Context, uid string) (model.Profile, error) {
	doc, err := s.docs.Get(ctx, collectionUsers, uid)
	if err != nil {
		return model.Profile{}, err
	}
	role, err := model.ParseRole(doc.String("role"))
	if err != nil {
		return model.Profile{}, fmt.Errorf("profile %s: %w", uid, err)
	}
	return model.Profile{UID: uid, Role: role}, nil
}

func (s *Store) Student(ctx context.Context, uid string) (*model.Student, error) {
	doc, err := s.docs.Get(ctx, collectionStudents, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.Student{
		Birthday:  doc.String("birthday"),
		Course:    doc.String("course"),
		Email:     doc.String("email"),
		FullName:  doc.String("fullName"),
		Phone:     doc.String("phone"),
		StudentID: doc.String("studentId"),
	}, nil
}

// OfficeOptions keeps the stored order. Records without a name are dropped.
func (s *Store) OfficeOptions(ctx context.Context) ([]model.OfficeOption, error) {
	doc, err := s.docs.Get(ctx, collectionSettings, s.officeListDoc)
	if errors.Is(err, docstore.ErrNotFound) {
		return []model.OfficeOption{}, nil
	}
	if err != nil {
		return nil, err
	}
	records := doc.Slice(s.officeListField)
	options := make([]model.OfficeOption, 0, len(records))
	for _, record := range records {
		option := model.OfficeOption{
			Name:         record.String("name"),
			Office:       record.String("office"),
			PhoneNumber:  record.String("phoneNumber"),
			OfficeCode:   record.String("officeCode"),
			Requirements: record.String("requirements"),
		}
		if err := s.validate.Struct(option); err != nil {
			continue
		}
		options = append(options, option)
	}
	return options, nil
}

func (s *Store) Setting(ctx context.Context, name string) (*string, error) {
	doc, err := s.docs.Get(ctx, collectionSettings, name)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	value, ok := doc["value"].(string)
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (s *Store) OfficeAccount(ctx context.Context, username string) (*model.OfficeAccount, error) {
	doc, err := s.docs.Get(ctx, collectionOfficeAccounts, username)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	account := &model.OfficeAccount{
		Username:     username,
		Office:       doc.String("office"),
		PasswordHash: doc.String("passwordHash"),
	}
	if account.Office == "" || account.PasswordHash == "" {
		return nil, fmt.Errorf("office account %s: incomplete record", username)
	}
	return account, nil
}

func (s *Store) SaveOfficeAccount(ctx context.Context, account model.OfficeAccount) error {
	if account.Username == "" || account.Office == "" || account.PasswordHash == "" {
		return errors.New("username, office and password hash are required")
	}
	return s.docs.Set(ctx, collectionOfficeAccounts, account.Username, docstore.Document{
		"office":       account.Office,
		"passwordHash": account.PasswordHash,
	})
}
