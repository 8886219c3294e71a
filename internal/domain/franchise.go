package domain

// Store — точка продаж внутри франшизы.
type Store struct {
	ID          int64  `json:"id"`
	FranchiseID int64  `json:"franchiseId,omitempty"`
	Name        string `json:"name"`
	// TotalRevenue — суммарная выручка магазина по заказам.
	TotalRevenue float64 `json:"totalRevenue,omitempty"`
}

// Franchise объединяет магазины и пользователей-администраторов.
type Franchise struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Admins []User  `json:"admins,omitempty"`
	Stores []Store `json:"stores"`
}

// Validate проверяет поля новой франшизы.
func (f Franchise) Validate() []error {
	var errs []error
	if f.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	for _, admin := range f.Admins {
		if admin.Email == "" {
			errs = append(errs, ErrEmailRequired)
		}
	}
	return errs
}
