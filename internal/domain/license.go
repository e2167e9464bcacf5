package domain

import "time"

type License struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ShortName string    `gorm:"not null;column:short_name" json:"short_name"`
	LongName  string    `gorm:"not null;column:long_name" json:"long_name"`
	Text      string    `gorm:"type:text;not null;column:text" json:"text"`
	Link      *string   `gorm:"column:link" json:"link,omitempty"`
	Version   *string   `gorm:"column:version" json:"version,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (License) TableName() string { return "licenses" }

type ReferenceGenome struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ShortName    string    `gorm:"not null;column:short_name" json:"short_name"`
	OrganismName string    `gorm:"not null;column:organism_name" json:"organism_name"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (ReferenceGenome) TableName() string { return "reference_genomes" }
