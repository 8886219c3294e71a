package domain

// RoleName описывает роль пользователя в системе.
type RoleName string

const (
	// RoleAdmin — администратор всего сервиса.
	RoleAdmin RoleName = "admin"
	// RoleDiner — обычный посетитель, оформляющий заказы.
	RoleDiner RoleName = "diner"
	// RoleFranchisee — администратор конкретной франшизы (ObjectID — её id).
	RoleFranchisee RoleName = "franchisee"
)

// Role связывает пользователя с ролью и, опционально, с объектом роли.
type Role struct {
	Role RoleName `json:"role"`
	// ObjectID заполняется только для franchisee и указывает на франшизу.
	ObjectID int64 `json:"objectId,omitempty"`
}

// User представляет учётную запись: diner, franchisee или admin.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles"`
	// PasswordHash никогда не сериализуется наружу.
	PasswordHash string `json:"-"`
}

// IsRole проверяет, есть ли у пользователя указанная роль.
func (u User) IsRole(role RoleName) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// AdministersFranchise проверяет, управляет ли пользователь франшизой.
func (u User) AdministersFranchise(franchiseID int64) bool {
	for _, r := range u.Roles {
		if r.Role == RoleFranchisee && r.ObjectID == franchiseID {
			return true
		}
	}
	return false
}

// ValidateNew проверяет поля, обязательные при регистрации.
func (u User) ValidateNew(password string) []error {
	var errs []error
	if u.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if u.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if password == "" {
		errs = append(errs, ErrPasswordRequired)
	}
	return errs
}
