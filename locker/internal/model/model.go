package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type ItemStatus string

const (
	ItemStatusFree     ItemStatus = "FREE"
	ItemStatusIssued   ItemStatus = "ISSUED"
	ItemStatusBroken   ItemStatus = "BROKEN"
	ItemStatusReserved ItemStatus = "RESERVED"
)

type RequestStatus string

const (
	StatusCreated          RequestStatus = "CREATED"
	StatusAwaitingApproval RequestStatus = "AWAITING_APPROVAL"
	StatusAwaitingPickup   RequestStatus = "AWAITING_PICKUP"
	StatusIssued           RequestStatus = "ISSUED"
	StatusReturnSoon       RequestStatus = "RETURN_SOON"
	StatusOverdue          RequestStatus = "OVERDUE"
	StatusReturned         RequestStatus = "RETURNED"
	StatusRejected         RequestStatus = "REJECTED"
	StatusCancelled        RequestStatus = "CANCELLED"
	StatusExpired          RequestStatus = "EXPIRED"
)

// Terminal reports whether a request in this status is finished and must
// only exist as an archive row.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusReturned, StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Held reports whether the item is physically out with the user.
func (s RequestStatus) Held() bool {
	switch s {
	case StatusIssued, StatusReturnSoon, StatusOverdue:
		return true
	}
	return false
}

// Specs is the free-form specification attribute map stored as jsonb.
type Specs map[string]interface{}

func (s Specs) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *Specs) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("specs: unsupported scan type")
}

type Item struct {
	ID          int        `json:"id" db:"id"`
	InvKey      string     `json:"invKey" db:"inv_key"`
	Name        string     `json:"name" db:"name"`
	Status      ItemStatus `json:"status" db:"status"`
	Owner       string     `json:"owner" db:"owner"`
	Available   bool       `json:"available" db:"available"`
	AccessLevel int        `json:"accessLevel" db:"access_level"`
	Specs       Specs      `json:"specifications" db:"specifications"`
	CellID      *int       `json:"cellId,omitempty" db:"cell_id"`
}

type Cell struct {
	ID       int    `json:"id" db:"id"`
	Size     string `json:"size" db:"size"`
	Location string `json:"location" db:"location"`
	IsFree   bool   `json:"isFree" db:"is_free"`
}

type User struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	UserType      int       `json:"userType" db:"user_type"`
	Active        bool      `json:"active" db:"active"`
	EmailVerified bool      `json:"emailVerified" db:"email_verified"`
	CardID        *string   `json:"cardId,omitempty" db:"card_id"`
	Created       time.Time `json:"created" db:"created"`
}

type Request struct {
	ID                int           `json:"id" db:"id"`
	RequestUID        string        `json:"requestUid" db:"request_uid"`
	Status            RequestStatus `json:"status" db:"status"`
	ItemID            int           `json:"itemId" db:"item_id"`
	UserID            int           `json:"userId" db:"user_id"`
	IssuedBy          int           `json:"issuedBy" db:"issued_by"`
	Comment           string        `json:"comment" db:"comment"`
	Created           time.Time     `json:"created" db:"created"`
	TakenDate         *time.Time    `json:"takenDate,omitempty" db:"taken_date"`
	PlannedReturnDate time.Time     `json:"plannedReturnDate" db:"planned_return_date"`
	ReturnDate        *time.Time    `json:"returnDate,omitempty" db:"return_date"`
}

type ArchivedRequest struct {
	ID                int           `json:"id" db:"id"`
	RequestUID        string        `json:"requestUid" db:"request_uid"`
	Status            RequestStatus `json:"status" db:"status"`
	ItemID            int           `json:"itemId" db:"item_id"`
	UserID            int           `json:"userId" db:"user_id"`
	IssuedBy          int           `json:"issuedBy" db:"issued_by"`
	Comment           string        `json:"comment" db:"comment"`
	Created           time.Time     `json:"created" db:"created"`
	TakenDate         *time.Time    `json:"takenDate,omitempty" db:"taken_date"`
	PlannedReturnDate time.Time     `json:"plannedReturnDate" db:"planned_return_date"`
	ActualReturnDate  *time.Time    `json:"actualReturnDate,omitempty" db:"actual_return_date"`
}

// RequestView is a denormalized row for user-facing listings.
type RequestView struct {
	ID                int           `json:"id" db:"id"`
	RequestUID        string        `json:"requestUid" db:"request_uid"`
	ItemName          string        `json:"itemName" db:"item_name"`
	ItemSpecs         Specs         `json:"itemSpecs,omitempty" db:"item_specs"`
	Status            RequestStatus `json:"status" db:"status"`
	Created           time.Time     `json:"created" db:"created"`
	PlannedReturnDate time.Time     `json:"plannedReturnDate" db:"planned_return_date"`
}

const dateLayout = "2006-01-02"

// Date is a request date field. The wire format is date-only; a full
// RFC 3339 timestamp is accepted too.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return errors.Errorf("cannot parse date %q", s)
		}
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

type CreateRequestIn struct {
	ItemID            int    `json:"itemId" validate:"required"`
	Comment           string `json:"comment"`
	PlannedReturnDate *Date  `json:"plannedReturnDate"`
	UserID            int    `json:"-"`
}

type RejectRequestIn struct {
	Reason string `json:"reason"`
}

type PickupIn struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type PickupCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AssignCellIn struct {
	ItemID int `json:"itemId" validate:"required"`
}

type ReleaseCellIn struct {
	ItemID int `json:"itemId" validate:"required"`
}

type ChangeReturnDateIn struct {
	NewDate Date `json:"newDate" validate:"required"`
}

type TokenIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SupportIn struct {
	Message string `json:"message" validate:"required"`
}
