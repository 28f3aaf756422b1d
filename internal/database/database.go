package database

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"example.com/motormart/services/showroom/config"
)

// DB holds the primary handle and a read-only handle for reporting
// queries. Both may point at the same database in small deployments.
type DB struct {
	Write *gorm.DB
	Read  *gorm.DB
}

// Connect opens both database handles with pooling configured.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	write, err := open(cfg.DSN, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to primary database")
	}

	readDSN := cfg.ReadOnlyDSN
	if readDSN == "" {
		readDSN = cfg.DSN
	}
	read, err := open(readDSN, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to read-only database")
	}

	return &DB{Write: write, Read: read}, nil
}

func open(dsn string, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Close closes both connection pools.
func (d *DB) Close() error {
	for _, handle := range []*gorm.DB{d.Write, d.Read} {
		if handle == nil {
			continue
		}
		sqlDB, err := handle.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}
