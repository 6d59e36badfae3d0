package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleManager  = "manager"
)

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"not null"                 json:"firstName"`
	LastName  string `gorm:"not null"                 json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null"     json:"email"`
	Password  string `gorm:"not null"                 json:"-"`
	Role      string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint  `gorm:"index;not null"           json:"user_id"`
	ExpiresAt int64 `gorm:"not null"                 json:"expires_at"`
	Revoked   bool  `gorm:"default:false"            json:"revoked"`
}
