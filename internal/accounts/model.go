package accounts

import "time"

// Account is one registered user of the directory. The wire shape matches
// the stored JSON document; Password holds the encoded credential hash, so
// it never leaves the process through a DTO.
type Account struct {
	ID        string    `json:"id"`
	Nama      string    `json:"nama"`
	Nokp      string    `json:"nokp"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountDTO is the public view of an account.
type AccountDTO struct {
	ID        string    `json:"id"`
	Nama      string    `json:"nama"`
	Nokp      string    `json:"nokp"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromAccount strips the credential hash from an account.
func FromAccount(a *Account) *AccountDTO {
	if a == nil {
		return nil
	}
	return &AccountDTO{
		ID:        a.ID,
		Nama:      a.Nama,
		Nokp:      a.Nokp,
		CreatedAt: a.CreatedAt,
	}
}
