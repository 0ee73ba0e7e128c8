package repository

import "time"

type ListTurnsOptions struct {
	OwnerID int64
	From    time.Time
	To      time.Time
}
