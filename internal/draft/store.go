package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/adelhazem/storefront/internal/checkout"
)

// Record is the persisted checkout draft, one row per user. It carries the
// flow between requests so the cart/shipping/payment screens share state.
type Record struct {
	UserID    string `gorm:"primaryKey"`
	State     string `gorm:"not null"`
	Shipping  []byte
	OrderID   string
	PaymentID string
	UpdatedAt time.Time
}

func (Record) TableName() string { return "checkout_drafts" }

type Store struct {
	db *gorm.DB
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects to postgres when a DSN is given, otherwise to a local sqlite
// file.
func Open(ctx context.Context, databaseURL, sqlitePath string) (*Store, error) {
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open draft db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping draft db: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate draft db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Save(ctx context.Context, snap checkout.Snapshot) error {
	var shipping []byte
	if snap.Shipping != nil {
		data, err := json.Marshal(snap.Shipping)
		if err != nil {
			return fmt.Errorf("marshal shipping: %w", err)
		}
		shipping = data
	}

	rec := Record{
		UserID:    snap.UserID,
		State:     string(snap.State),
		Shipping:  shipping,
		OrderID:   snap.OrderID,
		PaymentID: snap.PaymentID,
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *Store) Load(ctx context.Context, userID string) (checkout.Snapshot, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return checkout.Snapshot{}, false, nil
	}
	if err != nil {
		return checkout.Snapshot{}, false, err
	}

	snap := checkout.Snapshot{
		UserID:    rec.UserID,
		State:     checkout.State(rec.State),
		OrderID:   rec.OrderID,
		PaymentID: rec.PaymentID,
	}
	if len(rec.Shipping) > 0 {
		var info checkout.ShippingInfo
		if err := json.Unmarshal(rec.Shipping, &info); err != nil {
			return checkout.Snapshot{}, false, fmt.Errorf("unmarshal shipping: %w", err)
		}
		snap.Shipping = &info
	}
	return snap, true, nil
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Delete(&Record{}, "user_id = ?", userID).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
