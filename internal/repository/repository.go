package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

type Repositories struct {
	User         UserRepository
	Preference   PreferenceRepository
	Notification NotificationRepository
	Device       DeviceRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Preference:   NewPreferenceRepository(db),
		Notification: NewNotificationRepository(db),
		Device:       NewDeviceRepository(db),
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
