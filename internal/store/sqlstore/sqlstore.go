// Package sqlstore is the GORM-backed directory store. It runs on SQLite
// (in-memory by default) or PostgreSQL and wraps every read-modify-write in
// a transaction.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Gopher0727/StudyGroup/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultSQLiteDSN is a process-local database that vanishes on Close.
	DefaultSQLiteDSN = "file::memory:?cache=shared"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Options struct {
	Driver       string
	DSN          string
	BcryptCost   int
	MaxIdleConns int
	MaxOpenConns int
	// LogSQL turns on GORM statement logging.
	LogSQL bool
}

type Store struct {
	db         *gorm.DB
	catalog    *domain.Catalog
	bcryptCost int
}

// Open connects, migrates the schema and returns a ready store.
func Open(opts Options, catalog *domain.Catalog) (*Store, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}

	logMode := gormlogger.Silent
	if opts.LogSQL {
		logMode = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.AutoMigrate(
		&userRecord{},
		&credentialRecord{},
		&groupRecord{},
		&memberRecord{},
		&messageRecord{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Store{db: db, catalog: catalog, bcryptCost: cost}, nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, domain.ErrMissingUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	saved := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := rowExists(tx.Model(&userRecord{}).Where("id = ?", user.ID))
		if err != nil || exists {
			return err
		}
		if err := tx.Create(newUserRecord(user)).Error; err != nil {
			return err
		}
		cred := &credentialRecord{Name: user.Name, PasswordHash: string(hash), Email: user.Email}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "email"}),
		}).Create(cred).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}
	return saved, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var record userRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return record.toDomain(), nil
}

func (s *Store) CheckCredentials(ctx context.Context, name, password string) (bool, error) {
	var cred credentialRecord
	err := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load credentials: %w", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil, nil
}

func (s *Store) SaveStudyGroup(ctx context.Context, group *domain.StudyGroup) (bool, error) {
	if !group.Valid() {
		return false, domain.ErrInvalidGroup
	}

	saved := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := rowExists(tx.Model(&groupRecord{}).Where("id = ?", group.ID))
		if err != nil || exists {
			return err
		}
		if err := insertGroup(tx, group); err != nil {
			return err
		}
		saved = true
		return nil
	})
	if err != nil {
		return false, wrapGroupError(group, err)
	}
	return saved, nil
}

func (s *Store) CreateStudyGroup(ctx context.Context, group *domain.StudyGroup, creatorID string) error {
	if !group.Valid() {
		return domain.ErrInvalidGroup
	}
	if creatorID == "" {
		return domain.ErrMissingUser
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := rowExists(tx.Model(&groupRecord{}).Where("id = ?", group.ID))
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrGroupExists
		}
		if err := group.CanAdmit(0, false); err != nil {
			return err
		}
		if err := insertGroup(tx, group); err != nil {
			return err
		}
		return tx.Create(&memberRecord{GroupID: group.ID, UserID: creatorID, JoinedAt: group.CreatedAt}).Error
	})
	return wrapGroupError(group, err)
}

func insertGroup(tx *gorm.DB, group *domain.StudyGroup) error {
	taken, err := rowExists(tx.Model(&groupRecord{}).Where("name = ?", group.Name))
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrDuplicateGroupName
	}
	err = tx.Create(newGroupRecord(group)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateGroupName
	}
	return err
}

func wrapGroupError(group *domain.StudyGroup, err error) error {
	if err == nil || domain.IsRejection(err) {
		return err
	}
	return fmt.Errorf("failed to save study group %s: %w", group.ID, err)
}

func (s *Store) GetStudyGroup(ctx context.Context, id string) (*domain.StudyGroup, error) {
	record, err := findGroup(s.db.WithContext(ctx), id, false)
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// findGroup loads a group row. With lock set the row is held FOR UPDATE on
// PostgreSQL; SQLite serialises writers on its own.
func findGroup(tx *gorm.DB, id string, lock bool) (*groupRecord, error) {
	q := tx
	if lock && tx.Dialector.Name() == DriverPostgres {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record groupRecord
	err := q.Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get study group %s: %w", id, err)
	}
	return &record, nil
}

func (s *Store) ListStudyGroups(ctx context.Context) ([]*domain.StudyGroup, error) {
	var records []groupRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list study groups: %w", err)
	}
	return toGroups(records), nil
}

func (s *Store) GroupNameExists(ctx context.Context, name string) (bool, error) {
	exists, err := rowExists(s.db.WithContext(ctx).Model(&groupRecord{}).Where("name = ?", strings.TrimSpace(name)))
	if err != nil {
		return false, fmt.Errorf("failed to check group name: %w", err)
	}
	return exists, nil
}

func (s *Store) AddMember(ctx context.Context, groupID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := findGroup(tx, groupID, true)
		if err != nil {
			return err
		}
		count, isMember, err := memberState(tx, groupID, userID)
		if err != nil {
			return err
		}
		if err := record.toDomain().CanAdmit(count, isMember); err != nil {
			return err
		}

		err = tx.Create(&memberRecord{GroupID: groupID, UserID: userID, JoinedAt: time.Now().UTC()}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyMember
		}
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		return nil
	})
}

func (s *Store) RemoveMember(ctx context.Context, groupID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := findGroup(tx, groupID, true)
		if err != nil {
			return err
		}
		count, isMember, err := memberState(tx, groupID, userID)
		if err != nil {
			return err
		}
		if err := record.toDomain().CanRelease(count, isMember); err != nil {
			return err
		}

		err = tx.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&memberRecord{}).Error
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
}

func memberState(tx *gorm.DB, groupID, userID string) (int, bool, error) {
	var count int64
	if err := tx.Model(&memberRecord{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, false, fmt.Errorf("failed to count members: %w", err)
	}
	isMember, err := rowExists(tx.Model(&memberRecord{}).Where("group_id = ? AND user_id = ?", groupID, userID))
	if err != nil {
		return 0, false, fmt.Errorf("failed to check membership: %w", err)
	}
	return int(count), isMember, nil
}

func (s *Store) Members(ctx context.Context, groupID string) ([]string, error) {
	db := s.db.WithContext(ctx)
	if _, err := findGroup(db, groupID, false); err != nil {
		return nil, err
	}

	var ids []string
	err := db.Model(&memberRecord{}).Where("group_id = ?", groupID).Order("seq").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members of %s: %w", groupID, err)
	}
	return ids, nil
}

func (s *Store) UserGroups(ctx context.Context, userID string) ([]*domain.StudyGroup, error) {
	var records []groupRecord
	err := s.db.WithContext(ctx).
		Model(&groupRecord{}).
		Select("study_groups.*").
		Joins("JOIN group_members ON group_members.group_id = study_groups.id").
		Where("group_members.user_id = ?", userID).
		Order("group_members.seq").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of %s: %w", userID, err)
	}
	return toGroups(records), nil
}

func (s *Store) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	isMember, err := rowExists(s.db.WithContext(ctx).Model(&memberRecord{}).Where("group_id = ? AND user_id = ?", groupID, userID))
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return isMember, nil
}

func (s *Store) SaveMessage(ctx context.Context, sender *domain.User, msg *domain.Message) (bool, error) {
	if sender == nil || msg == nil {
		return false, nil
	}
	if err := s.db.WithContext(ctx).Create(newMessageRecord(msg)).Error; err != nil {
		return false, fmt.Errorf("failed to save message %d: %w", msg.ID, err)
	}
	return true, nil
}

func (s *Store) MessagesForUser(ctx context.Context, user *domain.User) ([]*domain.Message, error) {
	if user == nil {
		return nil, nil
	}

	var records []messageRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groupIDs []string
		if err := tx.Model(&memberRecord{}).Where("user_id = ?", user.ID).Pluck("group_id", &groupIDs).Error; err != nil {
			return err
		}

		q := tx.Where("group_id = '' AND recipient_name = ?", user.Name)
		if len(groupIDs) > 0 {
			q = q.Or("group_id IN ?", groupIDs)
		}
		return q.Order("id").Find(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for %s: %w", user.ID, err)
	}

	messages := make([]*domain.Message, len(records))
	for i := range records {
		messages[i] = records[i].toDomain()
	}
	return messages, nil
}

func (s *Store) Catalog() *domain.Catalog {
	return s.catalog
}

func (s *Store) Reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&messageRecord{}, &memberRecord{}, &groupRecord{}, &credentialRecord{}, &userRecord{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func rowExists(q *gorm.DB) (bool, error) {
	var count int64
	if err := q.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toGroups(records []groupRecord) []*domain.StudyGroup {
	groups := make([]*domain.StudyGroup, len(records))
	for i := range records {
		groups[i] = records[i].toDomain()
	}
	return groups
}
