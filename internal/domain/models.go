// Package domain defines the persistence models for the membership back
// office: seats, students, payments, expenses, and admin users. These types
// are mapped with GORM and form the relational schema that the assistant
// pipeline introspects and queries read-only.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Membership status values stored in students.membership_status.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

// Student represents a member holding (or having held) a seat.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name / ContactNumber: registration details.
//   - SeatNumber: assigned seat, nullable while on the waiting list.
//   - MembershipStatus: active|expired|suspended|inactive (DB constraint).
//   - MembershipDate / MembershipTill: validity window.
//   - MonthlyFee: agreed fee in rupees.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Student struct {
	ID               string         `json:"id"                gorm:"type:char(36);primaryKey"`
	Name             string         `json:"name"              gorm:"type:varchar(120);not null;index"`
	FatherName       string         `json:"father_name"       gorm:"type:varchar(120)"`
	ContactNumber    string         `json:"contact_number"    gorm:"type:varchar(20)"`
	Sex              string         `json:"sex"               gorm:"type:varchar(8)"`
	SeatNumber       *int           `json:"seat_number,omitempty" gorm:"index"`
	MembershipStatus string         `json:"membership_status" gorm:"type:varchar(16);not null;default:'active';index;check:membership_status IN ('active','expired','suspended','inactive')"`
	MembershipDate   time.Time      `json:"membership_date"`
	MembershipTill   time.Time      `json:"membership_till"   gorm:"index"`
	MonthlyFee       float64        `json:"monthly_fee"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"                 gorm:"index"`
}

// TableName returns the database table name for Student.
func (Student) TableName() string { return "students" }

// User is a back-office admin account. The status column participates in the
// pipeline's default-active-filter policy the same way students do.
type User struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Username  string         `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex"`
	Role      string         `json:"role"       gorm:"type:varchar(16);not null;default:'staff'"`
	Status    string         `json:"status"     gorm:"type:varchar(16);not null;default:'active';index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Seat is a physical seat in the reading hall. Occupancy is derived from the
// students table; the row stores static attributes only.
type Seat struct {
	SeatNumber     int       `json:"seat_number"     gorm:"primaryKey;autoIncrement:false"`
	Occupied       bool      `json:"occupied"        gorm:"not null;default:false"`
	SexRestriction string    `json:"sex_restriction" gorm:"type:varchar(8)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for Seat.
func (Seat) TableName() string { return "seats" }

// Payment records a fee payment made by a student.
type Payment struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	StudentID   string         `json:"student_id"  gorm:"type:char(36);not null;index"`
	Amount      float64        `json:"amount"      gorm:"not null"`
	PaymentDate time.Time      `json:"payment_date" gorm:"index"`
	PaymentMode string         `json:"payment_mode" gorm:"type:varchar(16);default:'cash'"`
	Remark      string         `json:"remark"      gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Student is the paying member. Payments are cascade-deleted if the
	// student row is removed.
	Student Student `json:"-" gorm:"foreignKey:StudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// Expense records an operating cost (rent, electricity, supplies).
type Expense struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Description string         `json:"description" gorm:"type:varchar(255);not null"`
	Cost        float64        `json:"cost"        gorm:"not null"`
	ExpenseDate time.Time      `json:"expense_date" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Expense.
func (Expense) TableName() string { return "expenses" }
