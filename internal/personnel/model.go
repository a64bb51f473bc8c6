package personnel

import "time"

// Fields are the editable attributes of a directory entry. Every field is
// required at submission time.
type Fields struct {
	Nama    string `json:"nama" validate:"required"`
	Nokp    string `json:"nokp" validate:"required"`
	Jawatan string `json:"jawatan" validate:"required"`
	Jabatan string `json:"jabatan" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Notel   string `json:"notel" validate:"required"`
}

// Record is one directory entry. AddedBy and CreatedAt are stamped at
// creation and never change; UpdatedBy and UpdatedAt appear on first edit.
// Unlike accounts, the nokp is not unique among records.
type Record struct {
	ID        string     `json:"id"`
	Nama      string     `json:"nama"`
	Nokp      string     `json:"nokp"`
	Jawatan   string     `json:"jawatan"`
	Jabatan   string     `json:"jabatan"`
	Email     string     `json:"email"`
	Notel     string     `json:"notel"`
	AddedBy   string     `json:"addedBy"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
