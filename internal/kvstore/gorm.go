package kvstore

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVRecord is one persisted key in the remote document database.
type KVRecord struct {
	Name      string    `gorm:"primaryKey;size:128" json:"name"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (KVRecord) TableName() string {
	return "store_kv"
}

// GormBackend keeps keys in a relational table through gorm. It is the
// hosted alternative to the local bolt file.
type GormBackend struct {
	db    *gorm.DB
	quota Quota
}

// PostgresOptions holds the connection settings for OpenPostgres.
type PostgresOptions struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	MaxConn  int
	IdleConn int
	Debug    bool
}

// OpenPostgres connects to PostgreSQL and migrates the key table.
func OpenPostgres(opts PostgresOptions, quota Quota) (*GormBackend, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		opts.Host, opts.Port, opts.User, opts.Password, opts.Name)
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if opts.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(postgres.Open(dsn), gcfg)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	if opts.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxConn)
	}
	if opts.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(opts.IdleConn)
	}
	return NewGormBackend(db, quota)
}

// NewGormBackend wraps an existing gorm handle.
func NewGormBackend(db *gorm.DB, quota Quota) (*GormBackend, error) {
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate store_kv")
	}
	return &GormBackend{db: db, quota: quota}, nil
}

func (g *GormBackend) Get(key string) (string, bool, error) {
	var rec KVRecord
	err := g.db.Where("name = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return rec.Value, true, nil
}

func (g *GormBackend) Set(key, value string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		if g.quota.MaxTotalBytes > 0 || g.quota.MaxValueBytes > 0 {
			var others int64
			err := tx.Model(&KVRecord{}).
				Where("name <> ?", key).
				Select("COALESCE(SUM(LENGTH(name) + LENGTH(value)), 0)").
				Scan(&others).Error
			if err != nil {
				return errors.Wrap(err, "measure usage")
			}
			if err := g.quota.check(key, value, int(others)); err != nil {
				return err
			}
		}
		rec := KVRecord{Name: key, Value: value, UpdatedAt: time.Now()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rec).Error
		return errors.Wrapf(err, "set %s", key)
	})
}

func (g *GormBackend) Delete(key string) error {
	return errors.Wrapf(g.db.Where("name = ?", key).Delete(&KVRecord{}).Error, "delete %s", key)
}

func (g *GormBackend) Keys() ([]string, error) {
	var keys []string
	err := g.db.Model(&KVRecord{}).Order("name").Pluck("name", &keys).Error
	return keys, errors.Wrap(err, "list keys")
}

func (g *GormBackend) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
