package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// User is the top level aggregate of Bucketly. All other resources
// reference it directly or transitively.
//
// Income records, buckets and the expenses referencing those buckets form
// one ledger per user; the allocation engine always works on exactly one
// user's ledger at a time.
type User struct {
	DefaultModel
	Name string `gorm:"uniqueIndex"`
	Note string
}

func (User) Self() string {
	return "User"
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Note = strings.TrimSpace(u.Note)

	return nil
}

// Returns all users for export
func (User) Export() (json.RawMessage, error) {
	var users []User
	err := DB.Unscoped().Where(&User{}).Find(&users).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&users)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
