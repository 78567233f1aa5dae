package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "signup/internal/errors"
	"signup/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// UserRepository defines persistence operations over the users table.
// Find operations return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string, attrs model.CreateAttrs) (*model.User, error)
	CreateIfAbsent(ctx context.Context, user *model.User) (created bool, err error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByThirdPartyID(ctx context.Context, uid string) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update model.ProfileUpdate) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user. A duplicate email surfaces as ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string, attrs model.CreateAttrs) (*model.User, error) {
	user := newUser(name, email, passwordHash, attrs)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, classify("users.Create", err)
	}
	return user, nil
}

// CreateIfAbsent inserts user unless a row with the same email or third-party id
// already exists, in which case nothing is written and created is false.
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return false, classify("users.CreateIfAbsent", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, absentOr("users.FindByID", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, absentOr("users.FindByEmail", err)
	}
	return &user, nil
}

func (r *userRepository) FindByThirdPartyID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
		return nil, absentOr("users.FindByThirdPartyID", err)
	}
	return &user, nil
}

// UpdateProfile writes exactly the columns the update supplies and returns the affected row count.
// updated_at is left alone, so a write that changes nothing reports 0 rows.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, update model.ProfileUpdate) (int64, error) {
	cols := update.Columns()
	if len(cols) == 0 {
		return 0, apperrors.ErrNoFieldsSupplied
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumns(cols)
	if res.Error != nil {
		return 0, classify("users.UpdateProfile", res.Error)
	}
	return res.RowsAffected, nil
}

func newUser(name, email, passwordHash string, attrs model.CreateAttrs) *model.User {
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		AuthMethod:   model.AuthMethodLocal,
	}
	if attrs.AuthMethod != "" {
		user.AuthMethod = attrs.AuthMethod
	}
	if attrs.FirebaseUID != "" {
		uid := attrs.FirebaseUID
		user.FirebaseUID = &uid
	}
	if attrs.ProfilePicture != "" {
		pic := attrs.ProfilePicture
		user.ProfilePicture = &pic
	}
	return user
}

func absentOr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return classify(op, err)
}

// classify maps driver failures onto the store's error kinds.
func classify(op string, err error) error {
	if field, ok := duplicateField(err); ok {
		kind := apperrors.ErrDuplicateEmail
		if field == "firebase_uid" {
			kind = apperrors.ErrThirdPartyIDInUse
		}
		return &apperrors.StoreError{Op: op, Kind: kind, Err: err}
	}
	if unavailable(err) {
		return &apperrors.StoreError{Op: op, Kind: apperrors.ErrStoreUnavailable, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// duplicateField reports which unique index rejected the write.
// MySQL names the key in the message: "Duplicate entry 'x' for key 'users.idx_users_email'".
func duplicateField(err error) (string, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlDuplicateEntry {
		return "", false
	}
	msg := strings.ToLower(myErr.Message)
	switch {
	case strings.Contains(msg, "firebase_uid"):
		return "firebase_uid", true
	default:
		return "email", true
	}
}

func unavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
