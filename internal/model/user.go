package model

// User 猫的主人。首次携带有效 token 访问时按 claims 建档
// swagger:model User
type User struct {
	BaseModel
	Username string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Cats     []Cat  `gorm:"foreignKey:OwnerID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
