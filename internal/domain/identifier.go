package domain

import "time"

type Keyword struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"uniqueIndex;not null;column:text" json:"text"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Keyword) TableName() string { return "keywords" }

type DoiIdentifier struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier string    `gorm:"uniqueIndex;not null;column:identifier" json:"identifier"`
	URL        string    `gorm:"column:url" json:"url"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (DoiIdentifier) TableName() string { return "doi_identifiers" }

type PubmedIdentifier struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier string    `gorm:"uniqueIndex;not null;column:identifier" json:"identifier"`
	URL        string    `gorm:"column:url" json:"url"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (PubmedIdentifier) TableName() string { return "pubmed_identifiers" }

type RawReadIdentifier struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Identifier string    `gorm:"uniqueIndex;not null;column:identifier" json:"identifier"`
	URL        string    `gorm:"column:url" json:"url"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (RawReadIdentifier) TableName() string { return "raw_read_identifiers" }

// ExternalIdentifier is a cross-reference into Ensembl, UniProt or RefSeq.
type ExternalIdentifier struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DbName     string    `gorm:"not null;column:db_name;uniqueIndex:idx_external_identifier,priority:1" json:"db_name"`
	Identifier string    `gorm:"not null;column:identifier;uniqueIndex:idx_external_identifier,priority:2" json:"identifier"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (ExternalIdentifier) TableName() string { return "external_identifiers" }

func DoiURL(id string) string     { return "https://doi.org/" + id }
func PubmedURL(id string) string  { return "https://pubmed.ncbi.nlm.nih.gov/" + id }
func RawReadURL(id string) string { return "https://www.ncbi.nlm.nih.gov/sra/" + id }

// ExternalURL links an external identifier to its database record; "" for unknown databases.
func ExternalURL(dbName, id string) string {
	switch dbName {
	case DbEnsembl:
		return "https://www.ensembl.org/id/" + id
	case DbUniProt:
		return "https://www.uniprot.org/uniprot/" + id
	case DbRefSeq:
		return "https://www.ncbi.nlm.nih.gov/nuccore/" + id
	}
	return ""
}
