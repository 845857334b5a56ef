package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ToastList 以 JSON 格式存储待展示的提示。
type ToastList []Toast

// Value 实现 driver.Valuer 接口。
func (l ToastList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]Toast(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (l *ToastList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*l = ToastList{}
			return nil
		}
		return json.Unmarshal(v, (*[]Toast)(l))
	case string:
		if v == "" {
			*l = ToastList{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]Toast)(l))
	default:
		return fmt.Errorf("unsupported type for ToastList: %T", value)
	}
}

// DbSession 浏览器会话记录
type DbSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Token     string    `gorm:"type:text" json:"-"`
	UserID    int64     `gorm:"index" json:"user_id"`
	RoleID    int       `json:"role_id"`
	TokenExp  time.Time `json:"token_exp"`
	Flash     ToastList `gorm:"type:text" json:"flash"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (DbSession) TableName() string {
	return "sessions"
}

// HasLogin 判断记录是否携带登录令牌
func (s DbSession) HasLogin() bool {
	return s.Token != ""
}
